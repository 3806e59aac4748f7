package inventory

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ThomasCrouzet/devops-inventory/internal/envfile"
)

const bannerRule = "# ========================="

// Serialize renders inv as namespaced KEY=VALUE text. Extension fields are
// written after the known fields of their entity, sorted by key, so that
// parsing the output yields the same inventory.
func Serialize(inv *Inventory) string {
	var b strings.Builder
	writeInventory(&b, inv)
	return b.String()
}

// Write serializes inv to w.
func Write(w io.Writer, inv *Inventory) error {
	_, err := io.WriteString(w, Serialize(inv))
	return err
}

func writeInventory(b *strings.Builder, inv *Inventory) {
	banner(b, "METADATA")
	version := inv.Metadata.Version
	if version == "" {
		version = DefaultVersion
	}
	line(b, MetadataPrefix+FieldVersion, version)
	optional(b, MetadataPrefix+FieldProject, inv.Metadata.Project)
	optional(b, MetadataPrefix+FieldOwner, inv.Metadata.Owner)
	optional(b, MetadataPrefix+FieldNotes, inv.Metadata.Notes)
	for _, k := range sortedKeys(inv.Metadata.Extra) {
		line(b, k, inv.Metadata.Extra[k])
	}
	b.WriteString("\n")

	banner(b, "PROVIDERS")
	for _, p := range inv.ProviderList() {
		writeProvider(b, p)
	}
	b.WriteString("\n")

	banner(b, "SERVERS / NODES")
	for _, s := range inv.ServerList() {
		writeServer(b, s)
	}
}

func writeProvider(b *strings.Builder, p *Provider) {
	key := func(field string) string { return ProviderKeyFor(p.Name, field) }

	fmt.Fprintf(b, "\n# %s\n", singleLine(p.DisplayName()))
	if p.Type == "" && providerIsBlank(p) {
		// One key is needed for the provider to exist after a re-parse.
		line(b, key(FieldType), "")
	}
	optional(b, key(FieldType), p.Type)
	optional(b, key(FieldAuthMethod), p.AuthMethod)
	optional(b, key(FieldAuthFile), p.AuthFile)
	optional(b, key(FieldDefaultRegion), p.DefaultRegion)
	optional(b, key(FieldLabel), p.Label)
	optional(b, key(FieldNotes), p.Notes)
	for _, f := range sortedKeys(p.Extra) {
		line(b, key(f), p.Extra[f])
	}
}

func writeServer(b *strings.Builder, s *Server) {
	key := func(field string) string { return ServerKeyFor(s.ID, field) }

	fmt.Fprintf(b, "\n# %s\n", singleLine(s.DisplayName()))

	// Always present so tooling can see what is missing.
	line(b, key(FieldProvider), s.Provider)
	line(b, key(FieldKind), s.Kind)
	line(b, key(FieldName), s.Name)
	line(b, key(FieldConnectVia), s.ConnectVia)

	optional(b, key(FieldHost), s.Host)
	if s.Port != nil {
		line(b, key(FieldPort), strconv.Itoa(*s.Port))
	}
	optional(b, key(FieldUser), s.User)
	optional(b, key(FieldSSHKeyPath), s.SSHKeyPath)
	optional(b, key(FieldEnv), s.Env)
	optional(b, key(FieldOS), s.OS)
	optional(b, key(FieldRole), s.Role)
	optional(b, key(FieldStatus), s.Status)
	if len(s.Tags) > 0 {
		line(b, key(FieldTags), strings.Join(s.Tags, ","))
	}
	optional(b, key(FieldNotes), s.Notes)
	for _, f := range sortedKeys(s.Extra) {
		line(b, key(f), s.Extra[f])
	}
}

func banner(b *strings.Builder, title string) {
	b.WriteString(bannerRule + "\n")
	b.WriteString("# " + title + "\n")
	b.WriteString(bannerRule + "\n")
}

func line(b *strings.Builder, key, value string) {
	b.WriteString(singleLine(key))
	b.WriteByte('=')
	b.WriteString(envfile.Quote(singleLine(value)))
	b.WriteByte('\n')
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// singleLine folds line breaks into spaces. The format has no multi-line
// values, and a raw break would start a new KEY=VALUE line.
func singleLine(s string) string {
	return lineBreaks.Replace(s)
}

func providerIsBlank(p *Provider) bool {
	return p.AuthMethod == "" && p.AuthFile == "" && p.DefaultRegion == "" &&
		p.Label == "" && p.Notes == "" && len(p.Extra) == 0
}

func optional(b *strings.Builder, key, value string) {
	if value != "" {
		line(b, key, value)
	}
}
