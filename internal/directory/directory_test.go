package directory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baiirun/taskorg/internal/model"
)

func emp(id, name, dept string) model.Employee {
	return model.Employee{ID: id, Name: name, Department: dept}
}

func TestEmptyDirectory(t *testing.T) {
	d := New()

	assert.True(t, d.IsEmpty())
	assert.Zero(t, d.Count())
	assert.Zero(t, d.Height())
	assert.Empty(t, d.SearchByDepartment(""))
	_, ok := d.SearchByID("E1")
	assert.False(t, ok)
	assert.Empty(t, d.String())
}

func TestRoundTrip_AllEmployeesOnce(t *testing.T) {
	d := New()
	depts := []string{"Marketing", "Desarrollo", "Soporte", "Desarrollo", "Ventas", "Administración"}
	for i, dept := range depts {
		require.NoError(t, d.Insert(emp(fmt.Sprintf("E%d", i+1), fmt.Sprintf("Empleado %d", i+1), dept)))
	}

	assert.Equal(t, len(depts), d.Count())

	all := d.SearchByDepartment("")
	require.Len(t, all, len(depts))
	seen := make(map[string]int)
	for _, e := range all {
		seen[e.ID]++
	}
	for i := range depts {
		assert.Equal(t, 1, seen[fmt.Sprintf("E%d", i+1)])
	}
}

func TestInsert_RightBiasedOnTies(t *testing.T) {
	d := New()
	for i := 1; i <= 4; i++ {
		require.NoError(t, d.Insert(emp(fmt.Sprintf("E%d", i), "x", "Desarrollo")))
	}
	// equal keys always descend right, so the tree is a chain
	assert.Equal(t, 4, d.Height())
}

func TestInsert_Shape(t *testing.T) {
	d := New()
	require.NoError(t, d.Insert(emp("E1", "Root", "M")))
	require.NoError(t, d.Insert(emp("E2", "Left", "C")))
	require.NoError(t, d.Insert(emp("E3", "Right", "T")))

	assert.Equal(t, 2, d.Height())

	var order []string
	d.Walk(func(e model.Employee) { order = append(order, e.ID) })
	assert.Equal(t, []string{"E1", "E2", "E3"}, order)

	assert.Equal(t, "    Right (T)\nRoot (M)\n    Left (C)\n", d.String())
}

func TestInsert_DuplicateID(t *testing.T) {
	d := New()
	require.NoError(t, d.Insert(emp("E1", "Ana", "Soporte")))

	err := d.Insert(emp("E1", "Otra", "Ventas"))
	assert.ErrorIs(t, err, model.ErrDuplicateID)
	assert.Equal(t, 1, d.Count())
}

func TestSearchByDepartment_CaseInsensitive(t *testing.T) {
	d := New()
	require.NoError(t, d.Insert(emp("E1", "Ana", "Soporte")))
	require.NoError(t, d.Insert(emp("E2", "Luis", "Desarrollo")))
	require.NoError(t, d.Insert(emp("E3", "Eva", "soporte")))
	require.NoError(t, d.Insert(emp("E4", "Leo", "Ventas")))

	got := d.SearchByDepartment("SOPORTE")
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"E1", "E3"}, []string{got[0].ID, got[1].ID})

	assert.Empty(t, d.SearchByDepartment("Legal"))
	assert.Len(t, d.SearchByDepartment("   "), 4)
}

func TestSearchByID(t *testing.T) {
	d := New()
	require.NoError(t, d.Insert(emp("E1", "Ana", "M")))
	require.NoError(t, d.Insert(emp("E2", "Luis", "A")))
	require.NoError(t, d.Insert(emp("E3", "Eva", "Z")))

	e, ok := d.SearchByID("E3")
	require.True(t, ok)
	assert.Equal(t, "Eva", e.Name)

	_, ok = d.SearchByID("E9")
	assert.False(t, ok)
}

type stubSource struct {
	emps []model.Employee
	err  error
}

func (s stubSource) LoadAllEmployees(ctx context.Context) ([]model.Employee, error) {
	return s.emps, s.err
}

func TestLoad(t *testing.T) {
	d, err := Load(context.Background(), stubSource{emps: []model.Employee{
		emp("E1", "Ana", "Soporte"),
		emp("E2", "Luis", "Desarrollo"),
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Count())

	_, err = Load(context.Background(), stubSource{err: errors.New("boom")})
	assert.Error(t, err)
}
