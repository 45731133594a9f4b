package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"delivery-tracker/internal/priority"
	"delivery-tracker/internal/rowmap"
	"delivery-tracker/internal/schema"
)

func newSchemaCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Work with the column layout",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "check",
			Short: "Compare the sheet header row with the layout",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				b, err := o.open()
				if err != nil {
					return err
				}
				err = b.Repo.CheckSchema(commandContext(cmd))
				var mismatch *schema.HeaderMismatchError
				if errors.As(err, &mismatch) {
					fmt.Fprintln(o.deps.Out, mismatch.Error())
					return errors.New("layout does not match the sheet")
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(o.deps.Out, "layout v%d matches sheet %q\n", o.layout.Version, o.layout.Sheet)
				return nil
			},
		},
		&cobra.Command{
			Use:   "dump",
			Short: "Print the effective layout as YAML",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				data, err := o.layout.Marshal()
				if err != nil {
					return err
				}
				_, err = o.deps.Out.Write(data)
				return err
			},
		},
	)
	return cmd
}

func newPendingCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List pending deliveries, most urgent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := o.open()
			if err != nil {
				return err
			}
			views, err := b.Service.ListPending(commandContext(cmd))
			if err != nil {
				return err
			}
			return o.printViews(views, pendingColumns)
		},
	}
}

func newHistoryCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List closed deliveries, latest update first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := o.open()
			if err != nil {
				return err
			}
			views, err := b.Service.ListHistory(commandContext(cmd))
			if err != nil {
				return err
			}
			return o.printViews(views, historyColumns)
		},
	}
}

func newFindCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <order-id>",
		Short: "Show one delivery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := o.open()
			if err != nil {
				return err
			}
			v, err := b.Service.Find(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return o.printDetail(v)
		},
	}
}

func newPriorityCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "priority <created-at>",
		Short: "Classify a creation date without touching the sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			createdAt := rowmap.ParseTime(args[0])
			if createdAt.IsZero() {
				return fmt.Errorf("cannot parse %q: use RFC3339 or YYYY-MM-DD", args[0])
			}
			days := priority.NewClassifier(o.deps.Clock).DaysSince(createdAt)
			p := priority.Classify(days)
			if o.output == FormatJSON {
				return o.printJSON(map[string]any{"days": days, "priority": p})
			}
			fmt.Fprintf(o.deps.Out, "%d days: %s\n", days, p)
			return nil
		},
	}
}
