package main

import (
	"io"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/go-theft-auto/pipeline/backend/opengl"
	"github.com/go-theft-auto/pipeline/manifest"
)

// writeReport prints one row per reflected uniform and attribute, grouped
// by pass in pipeline order.
func writeReport[P opengl.Profile](w io.Writer, b *manifest.Built[P]) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Pass", "Kind", "Name", "Type", "Location", "Size"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoMergeCells(true)

	for _, name := range b.PassNames() {
		p, _ := b.Pass(name)

		uniforms := p.Uniforms()
		for _, u := range sortedKeys(uniforms) {
			ctx := uniforms[u].Context()
			table.Append([]string{
				name, "uniform", u, opengl.TypeName(ctx.Type),
				strconv.Itoa(int(ctx.Location)), strconv.Itoa(int(ctx.Size)),
			})
		}
		attrs := p.Attributes()
		for _, a := range sortedKeys(attrs) {
			ctx := attrs[a].Context()
			table.Append([]string{
				name, "attribute", a, opengl.TypeName(ctx.Type),
				strconv.Itoa(int(ctx.Location)), strconv.Itoa(int(ctx.Size)),
			})
		}
	}
	table.Render()
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
