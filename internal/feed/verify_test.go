package feed

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	summary, err := Verify(testWriter().Render(testRecords()))

	require.NoError(t, err)
	assert.Equal(t, &Summary{Title: "YTU Etkinlik Takvimi", Language: "tr-TR", Items: 2}, summary)
}

func TestVerify_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not xml", data: "hello"},
		{name: "atom feed", data: `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><title>x</title></feed>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Verify([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestVerify_MissingGUID(t *testing.T) {
	data := `<?xml version="1.0"?><rss version="2.0"><channel><title>x</title><item><title>a</title></item></channel></rss>`

	summary, err := Verify([]byte(data))

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Missing)
}

func TestVerifyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.xml")
	require.NoError(t, testWriter().WriteFile(path, testRecords()))

	summary, err := VerifyFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Items)

	_, err = VerifyFile(filepath.Join(t.TempDir(), "nope.xml"))
	assert.Error(t, err)
}
