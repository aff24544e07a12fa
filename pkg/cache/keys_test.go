package cache

import (
	"path"
	"testing"
)

func TestKeys(t *testing.T) {
	if got, want := PostsKey(2, 10), "posts:2:10"; got != want {
		t.Errorf("PostsKey() = %v, want %v", got, want)
	}
	if got, want := PostKey("abc"), "post:abc"; got != want {
		t.Errorf("PostKey() = %v, want %v", got, want)
	}
}

func TestPostsKeyPatternMatchesListingKeys(t *testing.T) {
	matched, err := path.Match(PostsKeyPattern, PostsKey(1, 10))
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if !matched {
		t.Errorf("PostsKeyPattern does not match %v", PostsKey(1, 10))
	}

	matched, err = path.Match(PostsKeyPattern, PostKey("abc"))
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if matched {
		t.Errorf("PostsKeyPattern must not match single post keys")
	}
}
