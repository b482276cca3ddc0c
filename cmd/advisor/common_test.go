package main

import "testing"

func TestMongoDatabaseName(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"named database", "mongodb://localhost:27017/shardadvisor", "shardadvisor"},
		{"no path", "mongodb://localhost:27017", "advisor"},
		{"bare replica set", "mongodb://a,b,c/", "advisor"},
		{"malformed uri", "://not a uri", "advisor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mongoDatabaseName(tt.uri); got != tt.want {
				t.Errorf("mongoDatabaseName(%q) = %q, want %q", tt.uri, got, tt.want)
			}
		})
	}
}
