package cache

import "fmt"

// Key namespaces are kept in one place so they cannot drift between the
// read paths that populate them and the write paths that invalidate them.

// PostsKeyPattern matches every paginated listing key.
const PostsKeyPattern = "posts:*"

// PostsKey is the cache key of one page of the post listing.
func PostsKey(page, limit int) string {
	return fmt.Sprintf("posts:%d:%d", page, limit)
}

// PostKey is the cache key of a single post's detail view.
func PostKey(postId string) string {
	return "post:" + postId
}
