/*
Package runner implements the interactive loop behind `acme-blogs run`.

The runner reads one command per line and drives a board with it:

	users           list the employees
	select <id>     show the posts of an employee
	toggle <id>     show or hide the comments of a post
	show            print the board again
	quit            leave

Output goes through an IOHandler: TextHandler prints Markdown (optionally
rendered for the terminal), JSONHandler writes one JSON object per line.

# Usage

	r := runner.NewRunner(runner.NewTextHandler(os.Stdin, os.Stdout))
	if err := r.Run(ctx, board); err != nil {
		log.Fatal(err)
	}
*/
package runner
