package request_enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	assert.True(t, Contains(Regions, "jerusalem"))
	assert.False(t, Contains(Regions, "mars"))
	assert.True(t, Contains(Statuses, StatusInProgress))
	assert.False(t, Contains(HelpTypes, ""))
}

func TestNormalizeImageSource(t *testing.T) {
	assert.Equal(t, ImageSourceAI, NormalizeImageSource("ai_preset"))
	assert.Equal(t, ImageSourceInternal, NormalizeImageSource("upload"))
	assert.Equal(t, ImageSourceCloudinary, NormalizeImageSource("cloudinary"))
	assert.Equal(t, "bogus", NormalizeImageSource("bogus"))
}
