package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Formatter formats results for output.
type Formatter interface {
	FormatUpload(w io.Writer, results []UploadResult) error
	FormatMirror(w io.Writer, result *MirrorResult) error
	FormatDelete(w io.Writer, results []DeleteResult) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatUpload formats upload results as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.LocalPath, r.Err)
			continue
		}
		if !f.Quiet {
			_, _ = fmt.Fprintf(w, "Uploaded: %s as %s/%s (%s)\n", r.LocalPath, r.Category, r.FileName, formatSize(r.Size))
			_, _ = fmt.Fprintf(w, "  %s\n", r.Message)
		}
	}
	return nil
}

// FormatMirror formats a mirror result as human-readable text.
func (f *HumanFormatter) FormatMirror(w io.Writer, result *MirrorResult) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Mirrored: %s as %s/%s\n", result.URL, result.Category, result.FileName)
		_, _ = fmt.Fprintf(w, "  %s\n", result.Message)
	}
	return nil
}

// FormatDelete formats delete results as human-readable text.
func (f *HumanFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", strings.Join(r.FileNames, ", "), r.Err)
			continue
		}
		if !f.Quiet {
			_, _ = fmt.Fprintln(w, r.Message)
		}
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatUpload formats upload results as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	// Convert errors to strings for JSON output
	type jsonResult struct {
		UploadResult
		Error string `json:"error,omitempty"`
	}

	output := make([]jsonResult, len(results))
	for i := range results {
		output[i] = jsonResult{UploadResult: results[i]}
		if results[i].Err != nil {
			output[i].Error = results[i].Err.Error()
		}
	}

	return writeJSON(w, output)
}

// FormatMirror formats a mirror result as JSON.
func (f *JSONFormatter) FormatMirror(w io.Writer, result *MirrorResult) error {
	return writeJSON(w, result)
}

// FormatDelete formats delete results as JSON.
func (f *JSONFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	type jsonResult struct {
		DeleteResult
		Deleted bool   `json:"deleted"`
		Error   string `json:"error,omitempty"`
	}

	output := make([]jsonResult, len(results))
	for i := range results {
		output[i] = jsonResult{DeleteResult: results[i], Deleted: results[i].Err == nil}
		if results[i].Err != nil {
			output[i].Error = results[i].Err.Error()
		}
	}

	return writeJSON(w, output)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize renders a byte count with binary units.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit && exp < 3; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

// keySource describes where a profile's private key comes from.
func keySource(p Profile, showSecrets bool) string {
	if p.PrivateKeyFile != "" {
		return "file:" + p.PrivateKeyFile
	}
	return maskSecret(p.PrivateKey, showSecrets)
}

// FormatProfileList prints one row per profile; the default is marked with "*".
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "  NAME\tENDPOINT\tPRIVATE KEY")
	for _, p := range profiles {
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s %s\t%s\t%s\n", marker, truncate(p.Name, 20), truncate(p.Endpoint, 50), keySource(p, showSecrets))
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:        %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint:    %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "Private Key: %s\n", keySource(profile, showSecrets))
	return nil
}

type jsonProfile struct {
	Name           string `json:"name"`
	Endpoint       string `json:"endpoint"`
	PrivateKey     string `json:"private_key,omitempty"`
	PrivateKeyFile string `json:"private_key_file,omitempty"`
	Default        bool   `json:"default"`
}

func toJSONProfile(p Profile, isDefault, showSecrets bool) jsonProfile {
	jp := jsonProfile{
		Name:           p.Name,
		Endpoint:       p.Endpoint,
		PrivateKeyFile: p.PrivateKeyFile,
		Default:        isDefault,
	}
	if p.PrivateKey != "" {
		jp.PrivateKey = maskSecret(p.PrivateKey, showSecrets)
	}
	return jp
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		output.Profiles[i] = toJSONProfile(profiles[i], profiles[i].Name == defaultName, showSecrets)
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	return writeJSON(w, toJSONProfile(profile, isDefault, showSecrets))
}

// maskSecret masks a secret string, showing only first 4 and last 4 characters.
// If showSecrets is true, returns the original value.
// If the secret is too short, returns all asterisks.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
