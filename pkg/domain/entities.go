package domain

// Company is the employer block embedded in a User record.
type Company struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	CatchPhrase string `json:"catchPhrase" yaml:"catchPhrase" mapstructure:"catchPhrase"`
	BS          string `json:"bs,omitempty" yaml:"bs,omitempty" mapstructure:"bs"`
}

// User is an employee whose posts can be displayed.
type User struct {
	ID       int     `json:"id" yaml:"id" mapstructure:"id"`
	Name     string  `json:"name" yaml:"name" mapstructure:"name"`
	Username string  `json:"username,omitempty" yaml:"username,omitempty" mapstructure:"username"`
	Email    string  `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`
	Company  Company `json:"company" yaml:"company" mapstructure:"company"`
}

// Post is a single blog entry written by a User.
type Post struct {
	ID     int    `json:"id" yaml:"id" mapstructure:"id"`
	UserID int    `json:"userId" yaml:"userId" mapstructure:"userId"`
	Title  string `json:"title" yaml:"title" mapstructure:"title"`
	Body   string `json:"body" yaml:"body" mapstructure:"body"`
}

// Comment belongs to a Post.
type Comment struct {
	ID     int    `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	PostID int    `json:"postId,omitempty" yaml:"postId,omitempty" mapstructure:"postId"`
	Name   string `json:"name" yaml:"name" mapstructure:"name"`
	Email  string `json:"email" yaml:"email" mapstructure:"email"`
	Body   string `json:"body" yaml:"body" mapstructure:"body"`
}

// Byline returns the author line shown under a post.
func (u User) Byline() string {
	return "Author: " + u.Name + " with " + u.Company.Name
}
