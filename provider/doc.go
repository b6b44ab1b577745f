// Package provider holds the small generic pieces shared by swappable
// backends: the Provider contract, a named Registry and an availability-based
// Selector.
//
//	reg := provider.NewRegistry[transcription.Engine]()
//	reg.Register("local", localEngine)
//	sel := &provider.PrioritySelector[transcription.Engine]{Priority: []string{"local", "cloud"}}
//	e, err := sel.Select(ctx, reg.All())
package provider
