package services

import (
	"github.com/campusvault/CampusVault/internal/models"
	"github.com/campusvault/CampusVault/internal/registry"
)

// PreviewInfo is the payload the viewer needs to render one file. Kind is
// always one of the five closed viewer variants; type categories without a
// dedicated renderer (presentation, spreadsheet, archive) collapse into
// "document" or "other" the same way the viewer's dispatch table does.
type PreviewInfo struct {
	Kind string `json:"kind"` // image | video | audio | document | other

	FileName          string `json:"file_name"`
	FileSizeFormatted string `json:"file_size_formatted"`
	MimeType          string `json:"mime_type"`

	// Variant-specific, omitted when not applicable.
	Width             int    `json:"width,omitempty"`
	Height            int    `json:"height,omitempty"`
	DurationFormatted string `json:"duration_formatted,omitempty"`
	Bitrate           int    `json:"bitrate,omitempty"`
	PageCount         int    `json:"page_count,omitempty"`

	// Documents and "other" files are downloaded rather than rendered.
	DownloadOnly bool `json:"download_only"`
}

// BuildPreview maps a file's type category onto the viewer variant and the
// metadata that variant displays. The switch is exhaustive over the
// registry's type categories; a new category must be routed here before it
// can appear in the viewer.
func BuildPreview(f models.RepositoryFile) PreviewInfo {
	p := PreviewInfo{
		FileName:          f.OriginalName,
		FileSizeFormatted: f.FileSizeFormatted,
		MimeType:          f.MimeType,
	}

	switch f.FileTypeCategory {
	case registry.TypeImage:
		p.Kind = "image"
		if f.Multimedia != nil {
			p.Width = f.Multimedia.Width
			p.Height = f.Multimedia.Height
		}
	case registry.TypeVideo:
		p.Kind = "video"
		if f.Multimedia != nil {
			p.Width = f.Multimedia.Width
			p.Height = f.Multimedia.Height
			p.DurationFormatted = f.Multimedia.DurationFormatted
		}
	case registry.TypeAudio:
		p.Kind = "audio"
		if f.Multimedia != nil {
			p.DurationFormatted = f.Multimedia.DurationFormatted
			p.Bitrate = f.Multimedia.Bitrate
		}
	case registry.TypeDocument, registry.TypePresentation, registry.TypeSpreadsheet:
		p.Kind = "document"
		p.DownloadOnly = true
		if f.Multimedia != nil {
			p.PageCount = f.Multimedia.PageCount
		}
	case registry.TypeArchive, registry.TypeOther:
		p.Kind = "other"
		p.DownloadOnly = true
	default:
		p.Kind = "other"
		p.DownloadOnly = true
	}
	return p
}
