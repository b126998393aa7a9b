package roletag_test

import (
	"fmt"
	"log"

	"github.com/crimson-sun/roletag/pkg/roletag"
)

func Example() {
	r, err := roletag.New()
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	res := r.Classify("Head of Inside Sales")
	fmt.Printf("Department: %s (%s)\n", res.Department.Label, res.Department.Source)
	fmt.Printf("Seniority: %s (%s)\n", res.Seniority.Label, res.Seniority.Source)
	// Output:
	// Department: Sales (Rule)
	// Seniority: Director (Rule)
}

func ExampleRoletag_ClassifyProfile() {
	r, err := roletag.New()
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	res, ok := r.ClassifyProfile([]roletag.Experience{
		{Position: "Junior Developer", Status: "INACTIVE", StartDate: "2017"},
		{Position: "Senior Software Engineer", Status: "ACTIVE", StartDate: "2021-03"},
	})
	fmt.Println(ok, res.Position, res.Department.Label, res.Seniority.Label)
	// Output:
	// true Senior Software Engineer Information Technology Senior
}
