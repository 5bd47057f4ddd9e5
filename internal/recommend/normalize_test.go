package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"case", "Science", "science"},
		{"upper", "SCIENCE", "science"},
		{"underscore vs hyphen", "Arts_and_Crafts", "arts-and-crafts"},
		{"extra whitespace", "  Arts   and Crafts ", "arts and crafts"},
		{"repeated separators", "arts__crafts", "Arts - Crafts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Normalize(tt.a), Normalize(tt.b))
		})
	}
}

func TestNormalizeFoldsSeparatorRuns(t *testing.T) {
	assert.Equal(t, "arts crafts", Normalize("arts__crafts"))
	assert.Equal(t, "arts crafts", Normalize("\tArts -_ Crafts\n"))
}

func TestStripNamespace(t *testing.T) {
	assert.Equal(t, "Science", StripNamespace("Category:Science"))
	assert.Equal(t, "Science", StripNamespace("category: Science"))
	assert.Equal(t, "Science", StripNamespace("Science"))
	assert.Equal(t, "Cat", StripNamespace("Cat"))
}

func TestSameCategory(t *testing.T) {
	assert.True(t, SameCategory("Category:Arts_and_Crafts", "arts and crafts"))
	assert.False(t, SameCategory("Science", "Health"))
}

func TestInterestSet(t *testing.T) {
	s := NewInterestSet("Science", "science", "", "History")
	assert.Equal(t, []string{"Science", "History"}, s.Values())

	assert.False(t, s.Add("SCIENCE"))
	assert.True(t, s.Add("Category:Health"))
	assert.Equal(t, []string{"Science", "History", "Health"}, s.Values())

	assert.False(t, s.Toggle("history"))
	assert.Equal(t, []string{"Science", "Health"}, s.Values())
	assert.True(t, s.Toggle("Art"))
	assert.Equal(t, 3, s.Len())

	assert.False(t, s.Remove("Politics"))
	assert.True(t, s.Contains("health"))
}
