package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineCapture(t *testing.T) {
	tests := []struct {
		name   string
		writes []string
		want   string
	}{
		{"Empty", nil, ""},
		{"Single line", []string{"msg=one\n"}, "msg=one"},
		{"No terminator", []string{"msg=one"}, "msg=one"},
		{"CRLF", []string{"msg=one\r\n"}, "msg=one"},
		{"Last of many", []string{"msg=one\nmsg=two\n"}, "msg=two"},
		{"Later write wins", []string{"msg=one\n", "msg=two\n"}, "msg=two"},
		{"Blank keeps previous", []string{"msg=one\n", "\n"}, "msg=one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &LineCapture{}
			for _, w := range tt.writes {
				n, err := c.Write([]byte(w))
				assert.NoError(t, err)
				assert.Equal(t, len(w), n)
			}
			assert.Equal(t, tt.want, c.LastLine())
		})
	}
}
