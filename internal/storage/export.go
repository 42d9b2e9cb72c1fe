package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"bondi/internal/models"
)

// CSV snapshot file names, one per projection.
const (
	UsersCSV          = "users.csv"
	ExpensesCSV       = "expenses.csv"
	GoalsCSV          = "goals.csv"
	PodsCSV           = "pods.csv"
	SharedExpensesCSV = "shared_expenses.csv"
)

const (
	csvTimeFormat = "2006-01-02 15:04"
	csvDateFormat = "2006-01-02"
)

// ExportCSV writes the five denormalized projections of doc into dir.
// This is a pure read-side snapshot; nothing feeds back into the document.
// Users are emitted in sorted username order, pods in creation order.
func ExportCSV(doc *models.Document, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	usernames := make([]string, 0, len(doc.Users))
	for name := range doc.Users {
		usernames = append(usernames, name)
	}
	sort.Strings(usernames)

	if err := writeCSV(filepath.Join(dir, UsersCSV), userRows(doc, usernames)); err != nil {
		return fmt.Errorf("export users: %w", err)
	}
	if err := writeCSV(filepath.Join(dir, ExpensesCSV), expenseRows(doc, usernames)); err != nil {
		return fmt.Errorf("export expenses: %w", err)
	}
	if err := writeCSV(filepath.Join(dir, GoalsCSV), goalRows(doc, usernames)); err != nil {
		return fmt.Errorf("export goals: %w", err)
	}
	if err := writeCSV(filepath.Join(dir, PodsCSV), podRows(doc)); err != nil {
		return fmt.Errorf("export pods: %w", err)
	}
	if err := writeCSV(filepath.Join(dir, SharedExpensesCSV), sharedExpenseRows(doc)); err != nil {
		return fmt.Errorf("export shared expenses: %w", err)
	}
	return nil
}

func userRows(doc *models.Document, usernames []string) [][]string {
	rows := [][]string{{"username", "full_name", "email", "created_at", "streak_count"}}
	for _, name := range usernames {
		u := doc.Users[name]
		rows = append(rows, []string{
			name,
			u.FullName,
			u.Email,
			u.CreatedAt.Format(csvTimeFormat),
			strconv.Itoa(u.Streak.Count),
		})
	}
	return rows
}

func expenseRows(doc *models.Document, usernames []string) [][]string {
	rows := [][]string{{"username", "date", "amount", "category", "note"}}
	for _, name := range usernames {
		for _, e := range doc.Users[name].Expenses {
			rows = append(rows, []string{
				name,
				e.Date.Format(csvTimeFormat),
				e.Amount.StringFixed(2),
				e.Category,
				e.Note,
			})
		}
	}
	return rows
}

func goalRows(doc *models.Document, usernames []string) [][]string {
	rows := [][]string{{"username", "name", "target", "saved", "deadline", "created_at", "contributions"}}
	for _, name := range usernames {
		for _, g := range doc.Users[name].Goals {
			deadline := ""
			if g.Deadline != nil {
				deadline = g.Deadline.Format(csvDateFormat)
			}
			rows = append(rows, []string{
				name,
				g.Name,
				g.Target.StringFixed(2),
				g.Saved.StringFixed(2),
				deadline,
				g.CreatedAt.Format(csvTimeFormat),
				contributionsCell(g.History),
			})
		}
	}
	return rows
}

// contributionsCell flattens a goal's history into one cell of
// "date=amount" pairs joined by ";".
func contributionsCell(history []models.Contribution) string {
	parts := make([]string, 0, len(history))
	for _, c := range history {
		parts = append(parts, c.Date.Format(csvDateFormat)+"="+c.Amount.StringFixed(2))
	}
	return strings.Join(parts, ";")
}

func podRows(doc *models.Document) [][]string {
	rows := [][]string{{"id", "name", "type", "members", "created_at", "end_date"}}
	for _, p := range doc.Pods {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			string(p.Type),
			strings.Join(p.Members, ", "),
			p.CreatedAt.Format(csvTimeFormat),
			formatOptionalDate(p.EndDate),
		})
	}
	return rows
}

func sharedExpenseRows(doc *models.Document) [][]string {
	rows := [][]string{{
		"pod_id", "pod_name", "pod_type", "members",
		"date", "amount", "category", "note", "split_method", "split", "approvals",
	}}
	for _, p := range doc.Pods {
		members := strings.Join(p.Members, ", ")
		for _, e := range p.Expenses {
			rows = append(rows, []string{
				p.ID,
				p.Name,
				string(p.Type),
				members,
				e.Date.Format(csvTimeFormat),
				e.Amount.StringFixed(2),
				e.Category,
				e.Note,
				string(e.Method),
				jsonCell(e.Split),
				jsonCell(e.Approvals),
			})
		}
	}
	return rows
}

// jsonCell serializes a nested mapping into one CSV cell. json.Marshal
// emits map keys in sorted order, so the output is deterministic.
func jsonCell(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(csvDateFormat)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
