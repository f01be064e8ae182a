package main

import (
	"strings"
	"testing"
)

func TestValidateMaxPosts(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{n: 1},
		{n: 10},
		{n: 0, wantErr: true},
		{n: -3, wantErr: true},
	}
	for _, tt := range tests {
		err := validateMaxPosts(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateMaxPosts(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !strings.Contains(err.Error(), "-max-posts") {
			t.Errorf("validateMaxPosts(%d) error = %q, want it to name the flag", tt.n, err)
		}
	}
}
