package services

import (
	"testing"

	"github.com/campusvault/CampusVault/internal/models"
	"github.com/campusvault/CampusVault/internal/registry"
)

func TestBuildPreviewDispatch(t *testing.T) {
	cases := []struct {
		typeCategory string
		wantKind     string
		downloadOnly bool
	}{
		{registry.TypeImage, "image", false},
		{registry.TypeVideo, "video", false},
		{registry.TypeAudio, "audio", false},
		{registry.TypeDocument, "document", true},
		{registry.TypePresentation, "document", true},
		{registry.TypeSpreadsheet, "document", true},
		{registry.TypeArchive, "other", true},
		{registry.TypeOther, "other", true},
		{"something-new", "other", true},
	}
	for _, c := range cases {
		p := BuildPreview(models.RepositoryFile{FileTypeCategory: c.typeCategory})
		if p.Kind != c.wantKind {
			t.Errorf("type %q: kind = %q, want %q", c.typeCategory, p.Kind, c.wantKind)
		}
		if p.DownloadOnly != c.downloadOnly {
			t.Errorf("type %q: download_only = %v, want %v", c.typeCategory, p.DownloadOnly, c.downloadOnly)
		}
	}
}

func TestBuildPreviewCarriesMultimedia(t *testing.T) {
	f := models.RepositoryFile{
		FileTypeCategory: registry.TypeVideo,
		OriginalName:     "lecture.mp4",
		Multimedia: &models.MultimediaMeta{
			Width: 1920, Height: 1080, DurationFormatted: "1:01:01",
		},
	}
	p := BuildPreview(f)
	if p.Width != 1920 || p.Height != 1080 || p.DurationFormatted != "1:01:01" {
		t.Fatalf("multimedia metadata not carried into preview: %+v", p)
	}
}
