// Package comments shows and hides the comment section of a rendered post.
package comments
