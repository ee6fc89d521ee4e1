// Package transform implements the rewrite half of the engine: a
// state-machine pass over the original lines that deletes dead and unused
// regions and applies local fixes guided by the analysis context, followed
// by an unreachable-code sweep and a formatting pass.
package transform

import (
	"fmt"
	"sort"

	"github.com/rvelez/cmend/pkg/analyzer"
)

// selfExplanatory names are never renamed, nor is anything longer than
// three characters.
var selfExplanatory = map[string]bool{
	"result": true, "count": true, "index": true, "value": true,
	"total": true, "sum": true, "main": true, "argc": true, "argv": true,
}

// namePools is the fixed, type-keyed pool of descriptive replacement names.
var namePools = map[string][]string{
	"int":    {"counter", "number", "value", "index", "count"},
	"float":  {"decimal", "ratio", "amount", "rate"},
	"double": {"preciseValue", "calculation"},
	"char":   {"character", "letter", "symbol"},
	"long":   {"bigNumber", "largeValue"},
	"short":  {"smallValue", "briefCount"},
}

// BuildRenameMap computes the injective old-name to generated-name mapping
// for one run. Variables keep their name when it is self-explanatory or
// longer than three characters; otherwise they take the next unused entry
// from their type's pool, falling back to numbered names once a pool is
// exhausted.
func BuildRenameMap(ctx *analyzer.Context) map[string]string {
	taken := make(map[string]bool, len(ctx.Variables))
	for name := range ctx.Variables {
		taken[name] = true
	}

	vars := make([]*analyzer.VariableInfo, 0, len(ctx.Variables))
	for _, v := range ctx.Variables {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool {
		if vars[i].Line != vars[j].Line {
			return vars[i].Line < vars[j].Line
		}
		return vars[i].Name < vars[j].Name
	})

	renames := make(map[string]string)
	poolIdx := make(map[string]int)
	overflow := make(map[string]int)

	for _, v := range vars {
		if selfExplanatory[v.Name] || len(v.Name) > 3 {
			continue
		}
		pool, ok := namePools[v.Type]
		if !ok {
			pool = namePools["int"]
		}
		fresh := ""
		for i := poolIdx[v.Type]; i < len(pool); i++ {
			if !taken[pool[i]] {
				fresh = pool[i]
				poolIdx[v.Type] = i + 1
				break
			}
			poolIdx[v.Type] = i + 1
		}
		if fresh == "" {
			for {
				overflow[v.Type]++
				candidate := fmt.Sprintf("%s%d", pool[0], overflow[v.Type])
				if !taken[candidate] {
					fresh = candidate
					break
				}
			}
		}
		taken[fresh] = true
		renames[v.Name] = fresh
	}
	return renames
}
