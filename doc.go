/*
Package blogs renders the posts of a company's employees, with their
comments, into a page whose comment sections can be shown and hidden.

Data comes from a JSONPlaceholder-shaped source (users, posts, comments)
behind ports.Fetcher. Each selection of an employee fetches their posts,
resolves every author and comment list concurrently, then swaps the new
articles into the page and rebinds the toggle buttons. Toggling is local;
it never fetches again.

# Usage

	src := jsonplaceholder.New("", jsonplaceholder.WithTimeout(5*time.Second))
	board, err := blogs.New(src, blogs.WithFailurePolicy(blogs.SkipPost))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := board.InitPage(ctx); err != nil {
		log.Fatal(err)
	}
	if _, err := board.Select(ctx, "3"); err != nil {
		log.Fatal(err)
	}
	if _, err := board.Click(ctx, 21); err != nil {
		log.Fatal(err)
	}
	_ = board.Render(os.Stdout)

The same Board is served over HTTP by pkg/adapters/http, exposed to agents by
pkg/adapters/mcp and driven from a terminal by pkg/runner.
*/
package blogs
