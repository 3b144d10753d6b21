package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Widget", `%Widget%`},
		{"50%", `%50\%%`},
		{"a_b", `%a\_b%`},
		{`c:\tmp`, `%c:\\tmp%`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, containsPattern(tc.in), tc.in)
	}
}
