package pdfutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInfoRejectsEmptyData(t *testing.T) {
	_, err := Info(nil)
	require.Error(t, err)
}

func TestInfoRejectsNonPDFBytes(t *testing.T) {
	_, err := Info([]byte("definitely not a pdf"))
	require.Error(t, err)
}
