package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/adanyl0v/tasktrackr/internal/models"
)

func printTasks(w io.Writer, tasks []*models.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tTITLE\tCREATED")
	for _, task := range tasks {
		done := "[ ]"
		if task.Completed {
			done = "[x]"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			task.ID, done, task.Title, task.CreatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

type writerNavigator struct {
	w io.Writer
}

func newWriterNavigator(w io.Writer) *writerNavigator {
	return &writerNavigator{w: w}
}

func (n *writerNavigator) ShowSignedOut() {
	fmt.Fprintln(n.w, `You are signed out. Run "tasktrackr login --email <email>" to sign in.`)
}
