package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsConversion(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		path string
		want bool
	}{
		{path: "upload.pdf", want: false},
		{path: "upload.PDF", want: false},
		{path: "/scratch/9f1c.pdf", want: false},
		{path: "report.docx", want: true},
		{path: "slides.pptx", want: true},
		{path: "notes.txt", want: true},
		{path: "no-extension", want: true},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, NeedsConversion(tc.path), "NeedsConversion(%q)", tc.path)
	}
}
