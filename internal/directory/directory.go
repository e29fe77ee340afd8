// Package directory organizes employees in a binary search tree keyed by
// department name.
//
// Insertion goes left only when the new department sorts strictly before the
// current node's, so equal departments chain down the right side. The tree is
// never rebalanced. Nodes live in an arena slice and link to their children by
// index.
package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/baiirun/taskorg/internal/model"
)

const none = -1

type node struct {
	emp         model.Employee
	left, right int
}

// Directory is the employee tree. The zero value is not usable; call New.
type Directory struct {
	nodes []node
	root  int
}

// New returns an empty directory.
func New() *Directory {
	return &Directory{root: none}
}

// Source supplies employees to Load.
type Source interface {
	LoadAllEmployees(ctx context.Context) ([]model.Employee, error)
}

// Load builds a directory from every employee the source returns, in the
// order returned.
func Load(ctx context.Context, src Source) (*Directory, error) {
	emps, err := src.LoadAllEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	d := New()
	for _, e := range emps {
		if err := d.Insert(e); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Insert adds the employee at the first empty link on its search path.
func (d *Directory) Insert(e model.Employee) error {
	if _, ok := d.SearchByID(e.ID); ok {
		return fmt.Errorf("%w: employee %s", model.ErrDuplicateID, e.ID)
	}

	idx := len(d.nodes)
	d.nodes = append(d.nodes, node{emp: e, left: none, right: none})
	if d.root == none {
		d.root = idx
		return nil
	}

	cur := d.root
	for {
		n := &d.nodes[cur]
		if e.Department < n.emp.Department {
			if n.left == none {
				n.left = idx
				return nil
			}
			cur = n.left
		} else {
			if n.right == none {
				n.right = idx
				return nil
			}
			cur = n.right
		}
	}
}

// SearchByDepartment returns every employee whose department matches name,
// ignoring case. A blank name returns all employees. Matching visits the
// whole tree since equal keys are spread along right chains.
func (d *Directory) SearchByDepartment(name string) []model.Employee {
	var out []model.Employee
	all := strings.TrimSpace(name) == ""
	d.Walk(func(e model.Employee) {
		if all || strings.EqualFold(e.Department, name) {
			out = append(out, e)
		}
	})
	return out
}

// SearchByID returns the first employee with the given ID in pre-order.
func (d *Directory) SearchByID(id string) (model.Employee, bool) {
	return d.findID(d.root, id)
}

func (d *Directory) findID(i int, id string) (model.Employee, bool) {
	if i == none {
		return model.Employee{}, false
	}
	n := d.nodes[i]
	if n.emp.ID == id {
		return n.emp, true
	}
	if e, ok := d.findID(n.left, id); ok {
		return e, true
	}
	return d.findID(n.right, id)
}

// Walk calls fn for every employee in pre-order (node, left, right).
func (d *Directory) Walk(fn func(model.Employee)) {
	d.preorder(d.root, fn)
}

func (d *Directory) preorder(i int, fn func(model.Employee)) {
	if i == none {
		return
	}
	n := d.nodes[i]
	fn(n.emp)
	d.preorder(n.left, fn)
	d.preorder(n.right, fn)
}

// Count returns the number of employees.
func (d *Directory) Count() int {
	return d.count(d.root)
}

func (d *Directory) count(i int) int {
	if i == none {
		return 0
	}
	return 1 + d.count(d.nodes[i].left) + d.count(d.nodes[i].right)
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (d *Directory) Height() int {
	return d.height(d.root)
}

func (d *Directory) height(i int) int {
	if i == none {
		return 0
	}
	return 1 + max(d.height(d.nodes[i].left), d.height(d.nodes[i].right))
}

// IsEmpty reports whether the tree has no root.
func (d *Directory) IsEmpty() bool {
	return d.root == none
}

// String draws the tree sideways: right subtree above, left below, four
// spaces of indent per level.
func (d *Directory) String() string {
	var sb strings.Builder
	d.render(&sb, d.root, 0)
	return sb.String()
}

func (d *Directory) render(sb *strings.Builder, i, level int) {
	if i == none {
		return
	}
	n := d.nodes[i]
	d.render(sb, n.right, level+1)
	sb.WriteString(strings.Repeat("    ", level))
	fmt.Fprintf(sb, "%s (%s)\n", n.emp.Name, n.emp.Department)
	d.render(sb, n.left, level+1)
}
