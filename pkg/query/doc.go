// Package query builds the SQL text the relational catalog issues.
//
// Every statement is written once as a text/template over the world schema.
// The dialect fills in the parts that differ between engines: identifier
// quoting and case, parameter placeholders and the integer cast type. The
// arithmetic is the same for every dialect, so all backends return the same
// numbers.
//
//	b := query.New(mysql.MySQL)
//	q, err := b.GroupTotals(core.ScopeContinent)
//	rows, err := adp.Query(ctx, q.SQL, q.Args...)
package query
