package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePublicID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://res.example.com/image/upload/v123/temples/abc123.jpg", "abc123"},
		{"https://cdn.test/uploads/cover.PNG?w=200#top", "cover"},
		{"  http://localhost:8080/uploads/9f1c.webp  ", "9f1c"},
		{"/uploads/photo.jpeg", "photo"},
	}
	for _, tc := range cases {
		got, err := DerivePublicID(tc.url)
		if assert.NoError(t, err, tc.url) {
			assert.Equal(t, tc.want, got, tc.url)
		}
	}
}

func TestDerivePublicIDRejects(t *testing.T) {
	for _, raw := range []string{
		"",
		"https://cdn.test/",
		"https://cdn.test/docs/readme.txt",
		"https://cdn.test/uploads/noext",
		"https://cdn.test/uploads/.png",
		"://bad url",
	} {
		_, err := DerivePublicID(raw)
		assert.ErrorIs(t, err, ErrNoPublicID, raw)
	}
}
