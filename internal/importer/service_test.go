package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/timebank/internal/importer"
)

func TestService_Import(t *testing.T) {
	svc := importer.NewService()
	content := "date;hours;activity\n2024-01-02;1;phone_support\n"

	got, err := svc.Import("", strings.NewReader(content))
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.Import(importer.FormatTimesheet, strings.NewReader(content))
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.Import("spreadsheet", strings.NewReader(content))
	assert.ErrorContains(t, err, "unknown import format")
}
