package attachment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/dental-ops-api/internal/domain/attachment"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		ct, name string
		want     attachment.Kind
	}{
		{"image/png", "", attachment.KindImage},
		{"application/pdf; charset=binary", "x.bin", attachment.KindPDF},
		{"", "https://cdn.example.com/reports/123.JPG?token=abc", attachment.KindImage},
		{"", "contrato.pdf", attachment.KindPDF},
		{"application/octet-stream", "factura.docx", attachment.KindNone},
		{"", "", attachment.KindNone},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, attachment.Classify(c.ct, c.name), "%q %q", c.ct, c.name)
	}
}

func TestKindOf_SinAdjunto(t *testing.T) {
	assert.Equal(t, attachment.KindNone, attachment.KindOf(nil))
	assert.Equal(t, attachment.KindPDF, attachment.KindOf(&attachment.Ref{Key: "k", Name: "a.pdf"}))
}
