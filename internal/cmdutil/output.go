package cmdutil

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/opmodel/hostctl/internal/authdomain"
	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/hosting"
	"github.com/opmodel/hostctl/internal/output"
)

// PrintValidationError prints a validation error in a user-friendly format.
// Structured errors get a summary line followed by their details as plain
// text; anything else falls back to the key-value log format.
func PrintValidationError(msg string, err error) {
	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		output.Error(msg)
		output.Details(detail.Error())
		return
	}
	output.Error(msg, "error", err)
}

// ResolveFormat parses the --output flag, falling back to def when unset.
func ResolveFormat(flag string, def output.OutputFormat, allowed ...output.OutputFormat) (output.OutputFormat, error) {
	if flag == "" {
		return def, nil
	}
	if format, ok := output.ParseOutputFormat(flag); ok && slices.Contains(allowed, format) {
		return format, nil
	}
	return "", oerrors.NewValidationError(fmt.Sprintf("unsupported output format %q", flag), "", "output",
		fmt.Sprintf("Use one of: %v", allowed))
}

// ChannelTable renders channels as a table.
func ChannelTable(channels []hosting.Channel) *output.Table {
	tbl := output.NewTable("CHANNEL", "URL", "LAST RELEASE", "EXPIRES", "RETAINED").
		Dim(2, 3, 4).
		Empty("No channels")
	for _, ch := range channels {
		released := ""
		if ch.Release != nil {
			released = formatTime(ch.Release.ReleaseTime)
		}
		expires := "never"
		if !ch.ExpireTime.IsZero() {
			expires = formatTime(ch.ExpireTime)
		}
		tbl.Row(ch.ID(), ch.URL, released, expires, strconv.Itoa(ch.RetainedReleases()))
	}
	return tbl
}

// ReleaseTable renders releases as a table.
func ReleaseTable(releases []hosting.Release) *output.Table {
	tbl := output.NewTable("VERSION", "TYPE", "RELEASED", "BY", "MESSAGE").
		Dim(2, 3).
		Empty("No releases")
	for _, r := range releases {
		versionID, by := "", ""
		if r.Version != nil {
			versionID = r.Version.ID()
		}
		if r.ReleaseUser != nil {
			by = r.ReleaseUser.Email
		}
		tbl.Row(versionID, string(r.Type), formatTime(r.ReleaseTime), by, r.Message)
	}
	return tbl
}

// DecisionLine renders one auth domain decision.
func DecisionLine(d authdomain.Decision) string {
	status := output.StatusKept
	if !d.Keep {
		status = output.StatusPruned
	}
	return output.FormatItemLine("domain", d.Domain, status) + "  " + output.StyleDim.Render(string(d.Reason))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.DateTime)
}
