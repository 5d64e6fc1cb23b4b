package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadRejectsNonPDF(t *testing.T) {
	svc := &ReceiptService{}

	for _, ct := range []string{"image/png", "image/jpeg", "text/plain", ""} {
		_, _, err := svc.Upload(context.Background(), 1, Upload{
			Name:        "receipt.png",
			ContentType: ct,
			Reader:      strings.NewReader("not a pdf"),
		})
		assert.ErrorIs(t, err, ErrReceiptNotPDF, "content type %q", ct)
	}
}
