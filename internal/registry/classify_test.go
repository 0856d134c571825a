package registry

import "testing"

func TestClassifyExtension(t *testing.T) {
	cases := map[string]string{
		"png":  TypeImage,
		"JPG":  TypeImage,
		"mp4":  TypeVideo,
		"mp3":  TypeAudio,
		"pdf":  TypeDocument,
		"pptx": TypePresentation,
		"xlsx": TypeSpreadsheet,
		"zip":  TypeArchive,
		"xyz":  TypeOther,
		"":     TypeOther,
	}
	for ext, want := range cases {
		if got := ClassifyExtension(ext); got != want {
			t.Errorf("ClassifyExtension(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestExtensionOf(t *testing.T) {
	if got := ExtensionOf("CSC101 Past Questions.PDF"); got != "pdf" {
		t.Fatalf("expected pdf, got %q", got)
	}
	if got := ExtensionOf("noextension"); got != "" {
		t.Fatalf("expected empty extension, got %q", got)
	}
	if got := ExtensionOf("archive.tar.gz"); got != "gz" {
		t.Fatalf("expected gz, got %q", got)
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{20 * 1024 * 1024, "20 MB"},
	}
	for _, c := range cases {
		if got := FormatFileSize(c.in); got != c.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0:00"},
		{65, "1:05"},
		{600, "10:00"},
		{3661, "1:01:01"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.in); got != c.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEveryFileExtensionClassifies(t *testing.T) {
	// Every extension a category accepts must land in a defined type
	// category; the classifier is total, so this can only fail if a
	// registry entry gains an extension mapped to an empty string.
	for _, c := range Categories() {
		for _, ext := range c.AllowedFileTypes {
			if got := ClassifyExtension(ext); got == "" {
				t.Errorf("category %s extension %s classified to empty string", c.Name, ext)
			}
		}
	}
}
