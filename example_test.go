package multiindex_test

import (
	"fmt"

	"github.com/hupe1980/multiindex"
)

type employee struct {
	ID         int
	Department string
}

const (
	byID         = "by-id"
	byDepartment = "by-department"
)

func Example() {
	c := multiindex.New[employee](
		multiindex.OrderedUnique[employee, int](byID, func(e *employee) int { return e.ID },
			func(a, b int) bool { return a < b }),
		multiindex.HashedNonUnique[employee, string](byDepartment, func(e *employee) string { return e.Department },
			multiindex.FNV1a64, func(a, b string) bool { return a == b }),
	)

	idIdx := multiindex.Ordered[employee, int](c, byID)
	deptIdx := multiindex.Hashed[employee, string](c, byDepartment)

	idIdx.Insert(employee{ID: 3, Department: "eng"})
	idIdx.Insert(employee{ID: 1, Department: "eng"})
	idIdx.Insert(employee{ID: 2, Department: "sales"})

	fmt.Println("by id:")
	for it := idIdx.Begin(); it.Valid(); it = it.Next() {
		fmt.Println(it.Value().ID, it.Value().Department)
	}

	fmt.Println("eng headcount:", deptIdx.Count("eng"))

	// Output:
	// by id:
	// 1 eng
	// 2 sales
	// 3 eng
	// eng headcount: 2
}
