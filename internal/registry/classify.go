package registry

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Type categories derived from a file's extension.
const (
	TypeImage        = "image"
	TypeVideo        = "video"
	TypeAudio        = "audio"
	TypeDocument     = "document"
	TypePresentation = "presentation"
	TypeSpreadsheet  = "spreadsheet"
	TypeArchive      = "archive"
	TypeOther        = "other"
)

var typeByExtension = map[string]string{
	"jpg": TypeImage, "jpeg": TypeImage, "png": TypeImage, "gif": TypeImage,
	"svg": TypeImage, "webp": TypeImage, "bmp": TypeImage,

	"mp4": TypeVideo, "webm": TypeVideo, "mkv": TypeVideo, "avi": TypeVideo, "mov": TypeVideo,

	"mp3": TypeAudio, "wav": TypeAudio, "ogg": TypeAudio, "m4a": TypeAudio, "aac": TypeAudio,

	"pdf": TypeDocument, "doc": TypeDocument, "docx": TypeDocument, "txt": TypeDocument,
	"rtf": TypeDocument, "odt": TypeDocument, "epub": TypeDocument, "djvu": TypeDocument,
	"mobi": TypeDocument,

	"ppt": TypePresentation, "pptx": TypePresentation, "key": TypePresentation, "odp": TypePresentation,

	"xls": TypeSpreadsheet, "xlsx": TypeSpreadsheet, "csv": TypeSpreadsheet, "ods": TypeSpreadsheet,

	"zip": TypeArchive, "rar": TypeArchive, "7z": TypeArchive, "tar": TypeArchive, "gz": TypeArchive,
}

// ClassifyExtension maps a lowercase extension to its type category. Total:
// unknown extensions classify as "other".
func ClassifyExtension(ext string) string {
	if t, ok := typeByExtension[strings.ToLower(ext)]; ok {
		return t
	}
	return TypeOther
}

// ExtensionOf extracts the lowercase extension without the leading dot.
func ExtensionOf(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count with 1024-based units and at most two
// decimals: 0 -> "0 Bytes", 1024 -> "1 KB", 1536 -> "1.5 KB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// FormatDuration renders seconds as m:ss, or h:mm:ss from one hour up:
// 65 -> "1:05", 3661 -> "1:01:01".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return strconv.Itoa(h) + ":" + pad2(m) + ":" + pad2(s)
	}
	return strconv.Itoa(m) + ":" + pad2(s)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
