// Package roletag labels job titles with a department and a seniority.
//
// Quick start:
//
//	r, err := roletag.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	res := r.Classify("Head of Inside Sales")
//	fmt.Println(res.Department.Label, res.Seniority.Label) // Sales Director
//
// Titles go through lexical rules first. When training data is supplied, a
// centroid classifier handles titles no rule matches, and its answer is
// kept only above a per-task confidence threshold; otherwise the task's
// fallback label is used.
//
// A Roletag is safe for concurrent use. Create once, reuse across requests.
package roletag
