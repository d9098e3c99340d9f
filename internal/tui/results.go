package tui

import (
	"fmt"
	"strings"

	"github.com/jackzampolin/fraglab/internal/reconcile"
	"github.com/jackzampolin/fraglab/internal/runs"
)

// renderReport formats a run for the results panel.
func renderReport(s Styles, r *runs.Report) string {
	if r == nil {
		return s.Muted.Render("no analysis yet: press s to submit the structure")
	}

	var b strings.Builder
	sum := r.Summary
	fmt.Fprintf(&b, "%s  %s  %s\n", s.Header.Render("run "+shortID(r.ID)), r.Kind, r.CreatedAt.Local().Format("15:04:05"))
	fmt.Fprintf(&b, "images %d (failed %d)  fragments %d  detected %d  matched %d\n",
		sum.TotalImages, sum.FailedImages, sum.TotalFragments, sum.TotalDetectedFragments, sum.TotalMatchedFragments)
	fmt.Fprintf(&b, "first fragment start %s end %s  all fragments start %s end %s\n",
		sum.AvgFirstStartAccuracy, sum.AvgFirstEndAccuracy, sum.AvgAllStartAccuracy, sum.AvgAllEndAccuracy)

	for _, img := range r.Images {
		b.WriteString("\n")
		b.WriteString(s.Header.Render(img.Filename))
		if img.Error != "" {
			b.WriteString("  " + s.Error.Render(img.Error) + "\n")
			continue
		}
		fmt.Fprintf(&b, "  %d/%d matched\n", img.Matched, img.TotalFragments)
		for _, rec := range img.Records {
			b.WriteString(renderRecord(s, rec))
			b.WriteString("\n")
		}
		for _, d := range img.Unpaired {
			b.WriteString(s.Muted.Render(fmt.Sprintf("  unpaired detection %d..%d", d.Start, d.End)))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderRecord(s Styles, rec reconcile.Record) string {
	f := rec.Fragment
	detected := "-"
	if rec.Detected != nil {
		detected = fmt.Sprintf("%d..%d", rec.Detected.Start, rec.Detected.End)
	}
	return fmt.Sprintf("  #%-3d %8d..%-8d  detected %-17s  start %s  end %s",
		f.Number, f.Start, f.End, detected,
		s.class(rec.StartClass).Render(rec.StartAccuracy.String()),
		s.class(rec.EndClass).Render(rec.EndAccuracy.String()),
	)
}
