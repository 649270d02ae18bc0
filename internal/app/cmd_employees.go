package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hitoshi/hrms/internal/employee"
	"github.com/hitoshi/hrms/internal/model"
)

func (c *cli) employeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Browse and edit the employee directory",
	}
	cmd.AddCommand(c.employeesListCmd(), c.employeesGetCmd(), c.employeesUpdateCmd())
	return cmd
}

func (c *cli) employeesListCmd() *cobra.Command {
	var (
		q    employee.Query
		desc bool
		asJS bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Long: `List employees. The directory is fetched once, then searched, sorted and
paged locally.`,
		Args: cobra.NoArgs,
		RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
			if q.PageSize <= 0 {
				q.PageSize = app.Settings.Get().PageSize
			}
			if desc {
				q.SortDirection = model.SortDesc
			}

			if _, err := app.Employees.List(ctx, model.PaginationParams{PageNumber: 1, PageSize: q.PageSize}); err != nil {
				return fmt.Errorf("list employees failed: %s", app.Employees.Status.Error.Get())
			}
			page := employee.Apply(app.Employees.Employees.Get(), q)

			if asJS {
				return printJSON(cmd.OutOrStdout(), page)
			}
			return writeEmployeeTable(cmd.OutOrStdout(), page)
		}),
	}

	f := cmd.Flags()
	f.StringVarP(&q.Search, "search", "s", "", "Search first/last name, email or employee id")
	f.StringVar(&q.Department, "department", "", "Filter by department")
	f.StringVar((*string)(&q.Status), "status", "", "Filter by employment status")
	f.StringVar((*string)(&q.EmploymentType), "type", "", "Filter by employment type")
	f.StringVar(&q.SortBy, "sort", "", "Sort field (employeeId, firstName, lastName, email, department, designation, dateOfJoining, salary)")
	f.BoolVar(&desc, "desc", false, "Sort descending")
	f.IntVar(&q.PageNumber, "page", 1, "Page number")
	f.IntVar(&q.PageSize, "page-size", 0, "Page size (defaults to the pageSize setting)")
	f.BoolVar(&asJS, "json", false, "Print the page envelope as JSON")
	return cmd
}

func writeEmployeeTable(w io.Writer, page model.PaginatedResponse[model.Employee]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tDEPARTMENT\tDESIGNATION\tSTATUS")
	for _, e := range page.Items {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\t%s\n",
			e.ID, e.FirstName, e.LastName, e.Email, e.Department, e.Designation, e.EmploymentStatus)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d/%d, %d total\n", page.PageNumber, page.TotalPages, page.TotalCount)
	return err
}

func (c *cli) employeesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one employee",
		Args:  cobra.ExactArgs(1),
		RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
			emp, err := app.Employees.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get employee failed: %s", app.Employees.Status.Error.Get())
			}
			return printJSON(cmd.OutOrStdout(), emp)
		}),
	}
}

func (c *cli) employeesUpdateCmd() *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update employee fields",
		Long: `Update employee fields with --set field=value. Values that parse as JSON
(numbers, booleans, quoted strings) are sent as such, anything else as a string.`,
		Args: cobra.ExactArgs(1),
		RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
			patch, err := parseFieldPatch(fields)
			if err != nil {
				return err
			}
			emp, err := app.Employees.Update(ctx, args[0], patch)
			if err != nil {
				return fmt.Errorf("update employee failed: %s", app.Employees.Status.Error.Get())
			}
			return printJSON(cmd.OutOrStdout(), emp)
		}),
	}

	cmd.Flags().StringArrayVar(&fields, "set", nil, "field=value (repeatable)")
	_ = cmd.MarkFlagRequired("set")
	return cmd
}

// parseFieldPatch はfield=value形式の指定を部分更新のマップにする。
func parseFieldPatch(fields []string) (map[string]any, error) {
	patch := make(map[string]any, len(fields))
	for _, f := range fields {
		key, raw, ok := strings.Cut(f, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected field=value", f)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		patch[key] = v
	}
	return patch, nil
}
