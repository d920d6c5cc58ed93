package mocks

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// S3Server is a minimal path-style S3 endpoint serving a fixed set of objects.
// It understands ListObjectsV2 and ranged GetObject requests.
type S3Server struct {
	*httptest.Server

	Bucket   string
	Objects  map[string][]byte
	Modified time.Time

	// FailFirst makes the first n requests fail with 503.
	FailFirst atomic.Int32
	Requests  atomic.Int32
}

type listBucketResult struct {
	XMLName     xml.Name        `xml:"http://s3.amazonaws.com/doc/2006-03-01/ ListBucketResult"`
	Name        string          `xml:"Name"`
	Prefix      string          `xml:"Prefix"`
	KeyCount    int             `xml:"KeyCount"`
	MaxKeys     int             `xml:"MaxKeys"`
	IsTruncated bool            `xml:"IsTruncated"`
	Contents    []listedContent `xml:"Contents"`
}

type listedContent struct {
	Key          string `xml:"Key"`
	LastModified string `xml:"LastModified"`
	ETag         string `xml:"ETag"`
	Size         int64  `xml:"Size"`
	StorageClass string `xml:"StorageClass"`
}

type errorResponse struct {
	XMLName xml.Name `xml:"Error"`
	Code    string   `xml:"Code"`
	Message string   `xml:"Message"`
}

func NewS3Server(bucket string, objects map[string][]byte) *S3Server {
	s := &S3Server{
		Bucket:   bucket,
		Objects:  objects,
		Modified: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Endpoint returns host:port of the server.
func (s *S3Server) Endpoint() string {
	u, _ := url.Parse(s.URL)
	return u.Host
}

func (s *S3Server) handle(w http.ResponseWriter, r *http.Request) {
	s.Requests.Add(1)
	if s.FailFirst.Add(-1) >= 0 {
		s.writeError(w, http.StatusServiceUnavailable, "SlowDown", "try again")
		return
	}

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if bucket != s.Bucket {
		s.writeError(w, http.StatusNotFound, "NoSuchBucket", "bucket does not exist")
		return
	}

	if key == "" && r.URL.Query().Get("list-type") == "2" {
		s.list(w, r.URL.Query().Get("prefix"))
		return
	}

	s.get(w, r, key)
}

func (s *S3Server) list(w http.ResponseWriter, prefix string) {
	result := listBucketResult{
		Name:    s.Bucket,
		Prefix:  prefix,
		MaxKeys: 1000,
	}

	keys := make([]string, 0, len(s.Objects))
	for key := range s.Objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		result.Contents = append(result.Contents, listedContent{
			Key:          key,
			LastModified: s.Modified.Format("2006-01-02T15:04:05.000Z"),
			ETag:         `"etag"`,
			Size:         int64(len(s.Objects[key])),
			StorageClass: "STANDARD",
		})
	}
	result.KeyCount = len(result.Contents)

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	xml.NewEncoder(w).Encode(result)
}

func (s *S3Server) get(w http.ResponseWriter, r *http.Request, key string) {
	content, ok := s.Objects[key]
	if !ok {
		s.writeError(w, http.StatusNotFound, "NoSuchKey", "key does not exist")
		return
	}

	start, end := int64(0), int64(len(content))-1
	status := http.StatusOK
	if spec, found := strings.CutPrefix(r.Header.Get("Range"), "bytes="); found {
		from, to, _ := strings.Cut(spec, "-")
		start, _ = strconv.ParseInt(from, 10, 64)
		if to != "" {
			end, _ = strconv.ParseInt(to, 10, 64)
		}
		end = min(end, int64(len(content))-1)
		status = http.StatusPartialContent
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, len(content)))
	}

	body := content[start : end+1]
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("ETag", `"etag"`)
	w.Header().Set("Last-Modified", s.Modified.Format(http.TimeFormat))
	w.WriteHeader(status)
	w.Write(body)
}

func (s *S3Server) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	xml.NewEncoder(w).Encode(errorResponse{Code: code, Message: message})
}
