package importer

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/charmbracelet/log"
)

// Result holds the outcome of a single importer run.
type Result struct {
	Name    string
	Skipped bool
	Detail  string
	Stats   Stats
	Err     error
}

// Stats counts what an import changed.
type Stats struct {
	Added   int
	Updated int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d added, %d updated", s.Added, s.Updated)
}

// Options control how imported servers are merged.
type Options struct {
	Overwrite bool
	Logger    *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// Run executes every enabled importer against inv. It stops at the first
// failing importer and returns the results gathered so far.
func Run(ctx context.Context, inv *inventory.Inventory, sources map[string]any, opts Options) ([]Result, error) {
	var results []Result

	for _, imp := range All() {
		meta := imp.Metadata()

		if !imp.Enabled(sources) {
			results = append(results, Result{Name: meta.DisplayName, Skipped: true})
			continue
		}

		section, _ := sources[meta.ConfigKey].(map[string]any)
		res, err := RunOne(ctx, inv, imp, section, opts)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// RunOne configures, validates and runs a single importer.
func RunOne(ctx context.Context, inv *inventory.Inventory, imp Importer, section map[string]any, opts Options) (Result, error) {
	meta := imp.Metadata()
	res := Result{Name: meta.DisplayName}
	logger := opts.logger().With("importer", meta.Name)

	fail := func(err error) (Result, error) {
		ierr := &ImportError{Importer: meta.DisplayName, Err: err}
		res.Err = ierr
		return res, ierr
	}

	if err := imp.Configure(section); err != nil {
		return fail(err)
	}
	if errs := imp.Validate(); len(errs) > 0 {
		for _, e := range errs {
			logger.Debug("invalid importer config", "field", e.Field, "suggestion", e.Suggestion)
		}
		return fail(errs[0])
	}

	servers, err := imp.Import(ctx)
	if err != nil {
		return fail(err)
	}
	logger.Debug("read servers", "count", len(servers))
	dedupeIDs(servers, logger)

	res.Stats = Apply(inv, servers, ApplyOptions{
		Overwrite:    opts.Overwrite,
		ProviderType: meta.ProviderType,
	})
	res.Detail = res.Stats.String()
	return res, nil
}

// dedupeIDs renames servers whose id an earlier server of the same import
// already holds, since host names such as web-01 and web01 fold to one id.
// The later server gets the first free numeric suffix.
func dedupeIDs(servers []*inventory.Server, logger *log.Logger) {
	original := make(map[string]bool, len(servers))
	for _, s := range servers {
		original[s.ID] = true
	}

	seen := make(map[string]bool, len(servers))
	for _, s := range servers {
		if s.ID == "" {
			continue
		}
		if !seen[s.ID] {
			seen[s.ID] = true
			continue
		}

		id := s.ID
		for n := 2; ; n++ {
			candidate := id + strconv.Itoa(n)
			if !original[candidate] && !seen[candidate] {
				s.ID = candidate
				break
			}
		}
		seen[s.ID] = true
		logger.Warn("server ids collide, renamed", "id", id, "renamed", s.ID, "name", s.Name)
	}
}

// ApplyOptions control Apply.
type ApplyOptions struct {
	// Overwrite replaces fields the inventory already sets.
	Overwrite bool
	// ProviderType is given to providers the import references but the
	// inventory does not declare.
	ProviderType string
}

// stringFields lists the server fields merged by Apply.
var stringFields = []func(s *inventory.Server) *string{
	func(s *inventory.Server) *string { return &s.Provider },
	func(s *inventory.Server) *string { return &s.Kind },
	func(s *inventory.Server) *string { return &s.Name },
	func(s *inventory.Server) *string { return &s.ConnectVia },
	func(s *inventory.Server) *string { return &s.Env },
	func(s *inventory.Server) *string { return &s.OS },
	func(s *inventory.Server) *string { return &s.Role },
	func(s *inventory.Server) *string { return &s.Status },
	func(s *inventory.Server) *string { return &s.Host },
	func(s *inventory.Server) *string { return &s.User },
	func(s *inventory.Server) *string { return &s.SSHKeyPath },
	func(s *inventory.Server) *string { return &s.Notes },
}

// Apply merges imported servers into inv. Fields the inventory already sets
// are kept unless opts.Overwrite is true.
func Apply(inv *inventory.Inventory, servers []*inventory.Server, opts ApplyOptions) Stats {
	var stats Stats

	for _, in := range servers {
		if in.ID == "" {
			continue
		}

		_, exists := inv.Servers[in.ID]
		target := inv.Server(in.ID)
		changed := mergeServer(target, in, opts.Overwrite)

		switch {
		case !exists:
			stats.Added++
		case changed:
			stats.Updated++
		}

		if target.Provider != "" {
			if _, ok := inv.Providers[target.Provider]; !ok {
				p := inv.Provider(target.Provider)
				p.Type = opts.ProviderType
			}
		}
	}

	return stats
}

func mergeServer(dst, src *inventory.Server, overwrite bool) bool {
	changed := false

	for _, field := range stringFields {
		d, s := field(dst), field(src)
		if *s == "" || *s == *d {
			continue
		}
		if *d == "" || overwrite {
			*d = *s
			changed = true
		}
	}

	if src.Port != nil && (dst.Port == nil || overwrite) {
		if dst.Port == nil || *dst.Port != *src.Port {
			dst.SetPort(*src.Port)
			changed = true
		}
	}

	if len(src.Tags) > 0 && (len(dst.Tags) == 0 || overwrite) {
		if !slices.Equal(dst.Tags, src.Tags) {
			dst.Tags = append([]string(nil), src.Tags...)
			changed = true
		}
	}

	for k, v := range src.Extra {
		if cur, ok := dst.Extra[k]; ok && (cur == v || !overwrite) {
			continue
		}
		if dst.Extra == nil {
			dst.Extra = make(map[string]string)
		}
		dst.Extra[k] = v
		changed = true
	}

	return changed
}
