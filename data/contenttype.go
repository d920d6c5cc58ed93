package data

import (
	"path"
	"strings"
)

type ContentType string

const (
	ContentTypeTIFF      ContentType = "image/tiff"
	ContentTypeJP2       ContentType = "image/jp2"
	ContentTypePNG       ContentType = "image/png"
	ContentTypeJPEG      ContentType = "image/jpeg"
	ContentTypeVRT       ContentType = "application/xml"
	ContentTypeGeoJSON   ContentType = "application/geo+json"
	ContentTypeJSON      ContentType = "application/json"
	ContentTypeGPKG      ContentType = "application/geopackage+sqlite3"
	ContentTypeNetCDF    ContentType = "application/x-netcdf"
	ContentTypeShapefile ContentType = "application/x-esri-shape"
	ContentTypeZip       ContentType = "application/zip"
	ContentTypeGZip      ContentType = "application/gzip"
	ContentTypeCSV       ContentType = "text/csv"
	ContentTypeText      ContentType = "text/plain"
	ContentTypeStream    ContentType = "application/octet-stream"
	ContentTypeDirectory ContentType = "inode/directory"
)

// extensionContentTypes maps lower-case object key extensions to content types.
var extensionContentTypes = map[string]ContentType{
	".tif":     ContentTypeTIFF,
	".tiff":    ContentTypeTIFF,
	".jp2":     ContentTypeJP2,
	".png":     ContentTypePNG,
	".jpg":     ContentTypeJPEG,
	".jpeg":    ContentTypeJPEG,
	".vrt":     ContentTypeVRT,
	".xml":     ContentTypeVRT,
	".geojson": ContentTypeGeoJSON,
	".json":    ContentTypeJSON,
	".gpkg":    ContentTypeGPKG,
	".nc":      ContentTypeNetCDF,
	".shp":     ContentTypeShapefile,
	".zip":     ContentTypeZip,
	".gz":      ContentTypeGZip,
	".csv":     ContentTypeCSV,
	".txt":     ContentTypeText,
}

// ContentTypeOf guesses the content type of an object from its key extension.
// Object stores do not report it in listings, so the key is all there is.
func ContentTypeOf(key string) ContentType {
	if strings.HasSuffix(key, "/") {
		return ContentTypeDirectory
	}

	if contentType, exists := extensionContentTypes[strings.ToLower(path.Ext(key))]; exists {
		return contentType
	}
	return ContentTypeStream
}

// ContentType returns the guessed content type of the stat'ed path.
func (s *FileStat) ContentType() ContentType {
	if s.IsDir() {
		return ContentTypeDirectory
	}
	return ContentTypeOf(s.Path)
}
