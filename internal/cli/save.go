package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talhahasanzia/entrifi/internal/reason"
	"github.com/talhahasanzia/entrifi/internal/submission"
)

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	As     string   // signed-in identity, becomes createdBy
	For    string   // createdFor
	Reason string   // reason key
	Amount string   // optional number
	Notes  string   // creationReason
	Fields []string // name=value pairs for the reason's extra fields
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a submission",
		Long: `Validate a new form submission and save it through the host.

The serial number and timestamp are assigned here. Extra fields must be
declared by the chosen reason (see "entrifi reasons").

Exit codes:
  0 - Saved
  1 - Rejected by validation or by the host
  2 - Host unreachable

Examples:
  entrifi save --as a@b.com --for Jane --reason doctor_visit \
    --field doctorName="Dr. X" --field appointmentDate=2024-05-01 \
    --amount 50 --notes "annual checkup"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "email of the person creating the form (required)")
	cmd.Flags().StringVar(&opts.For, "for", "", "who the form is created for (required)")
	cmd.Flags().StringVar(&opts.Reason, "reason", "", "reason key (required)")
	cmd.Flags().StringVar(&opts.Amount, "amount", "", "amount")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "creation reason / notes")
	cmd.Flags().StringArrayVar(&opts.Fields, "field", nil, "extra field as name=value (repeatable)")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func runSave(opts *SaveOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	_, catalog, err := opts.renderer()
	if err != nil {
		return err
	}

	if err := submission.ValidateIdentity(opts.As); err != nil {
		return f.Fail(ExitFailure, CodeValidation, err.Error(), nil)
	}

	draft, err := opts.draft(catalog)
	if err == nil {
		err = submission.ValidateDraft(draft, catalog)
	}
	if err != nil {
		return f.Fail(ExitFailure, CodeValidation, err.Error(), nil)
	}

	rec := submission.New(opts.clock(), opts.serials(), opts.As, draft)

	remote, err := opts.remote()
	if err != nil {
		return err
	}
	f.VerboseLog("Saving %s", rec.SerialNumber)

	env := remote.SaveSubmission(cmd.Context(), rec)
	if !env.Success {
		return callFailed(f, env)
	}

	if f.IsJSON() {
		return f.Success(rec)
	}
	return f.Success(fmt.Sprintf("Saved %s", rec.SerialNumber))
}

// draft builds a draft from flags. Field values are parsed by the reason's
// field types when the reason and field are known; anything else is kept
// verbatim and left to ValidateDraft.
func (o *SaveOptions) draft(catalog *reason.Catalog) (submission.Draft, error) {
	d := submission.Draft{
		CreatedFor:     o.For,
		ReasonType:     o.Reason,
		CreationReason: o.Notes,
		ExtraFields:    map[string]any{},
	}

	if strings.TrimSpace(o.Amount) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(o.Amount), 64)
		if err != nil {
			return d, &submission.ValidationError{Field: "amount", Message: fmt.Sprintf("Amount %q is not a number.", o.Amount)}
		}
		d.Amount = &v
	}

	rsn, known := catalog.Lookup(o.Reason)
	for _, kv := range o.Fields {
		name, raw, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return d, &submission.ValidationError{Field: "field", Message: fmt.Sprintf("Field %q must be written as name=value.", kv)}
		}

		var value any = raw
		if known {
			if field, ok := rsn.Field(name); ok {
				parsed, err := field.Parse(raw)
				if err != nil {
					return d, &submission.ValidationError{Field: name, Message: err.Error()}
				}
				value = parsed
			}
		}
		d.ExtraFields[name] = value
	}

	return d, nil
}
