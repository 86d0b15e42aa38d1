package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fonotrack/fonotrack/internal/config"
	"github.com/fonotrack/fonotrack/internal/controller"
	"github.com/fonotrack/fonotrack/internal/derive"
	"github.com/fonotrack/fonotrack/internal/gateway"
	"github.com/fonotrack/fonotrack/internal/model"
	"github.com/fonotrack/fonotrack/internal/sandbox"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fonotrack",
		Short: "Patient management client for a speech-therapy clinic",
	}

	rootCmd.AddCommand(patientsCmd())
	rootCmd.AddCommand(evaluationsCmd())
	rootCmd.AddCommand(documentsCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(sandboxCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config and builds the shared logger and gateway client.
func setup() (*config.Config, zerolog.Logger, *gateway.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	client := gateway.NewClient(cfg.APIBaseURL,
		gateway.WithLogger(log),
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout()}),
	)
	return cfg, log, client, nil
}

// confirmOnTerminal asks for interactive confirmation unless --yes was given.
func confirmOnTerminal(yes bool) controller.ConfirmFunc {
	return func(prompt string) bool {
		if yes {
			return true
		}
		fmt.Printf("%s [y/N]: ", prompt)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes" || answer == "s" || answer == "si"
	}
}

// -- patients --

func patientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Manage patient records",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")

			_, log, client, err := setup()
			if err != nil {
				return err
			}
			list := controller.NewPatientList(client, log)
			list.Load(cmd.Context())

			if msg := list.LoadError(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			printPatients(list.Filtered(query))
			return nil
		},
	}
	listCmd.Flags().String("query", "", "Filter by name or document number")
	cmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one patient with evaluations and documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, client, err := setup()
			if err != nil {
				return err
			}
			detail := controller.NewPatientDetail(client, log)
			detail.Load(cmd.Context(), args[0])

			if detail.NotFound() {
				fmt.Println("Paciente no encontrado")
				return nil
			}
			p := detail.Patient()
			if p == nil {
				return fmt.Errorf("no se pudo cargar el paciente %s", args[0])
			}
			printPatientDetail(*p, detail.Evaluations(), detail.Documents())
			return nil
		},
	}
	cmd.AddCommand(getCmd)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, client, err := setup()
			if err != nil {
				return err
			}
			form := controller.NewPatientForm(client, nil, controller.PatientFormLogger(log))
			applyPatientFlags(cmd, form)
			return submitForm(cmd.Context(), form.Submit, form.Errors)
		},
	}
	addPatientFlags(createCmd)
	cmd.AddCommand(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, client, err := setup()
			if err != nil {
				return err
			}
			existing, err := client.GetPatient(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			form := controller.NewPatientForm(client, existing, controller.PatientFormLogger(log))
			applyPatientFlags(cmd, form)
			return submitForm(cmd.Context(), form.Submit, form.Errors)
		},
	}
	addPatientFlags(updateCmd)
	cmd.AddCommand(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a patient (irreversible)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")

			_, log, client, err := setup()
			if err != nil {
				return err
			}
			list := controller.NewPatientList(client, log)
			alert, err := list.Delete(cmd.Context(), args[0], confirmOnTerminal(yes))
			if alert != "" {
				fmt.Fprintln(os.Stderr, alert)
			}
			return err
		},
	}
	deleteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	cmd.AddCommand(deleteCmd)

	return cmd
}

func addPatientFlags(cmd *cobra.Command) {
	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("last-name", "", "Last name")
	cmd.Flags().String("birth-date", "", "Date of birth (YYYY-MM-DD)")
	cmd.Flags().String("diagnosis", "", "Diagnosis")
	cmd.Flags().String("reason", "", "Reason for consult")
	cmd.Flags().String("notes", "", "General notes")
}

func applyPatientFlags(cmd *cobra.Command, form *controller.PatientForm) {
	for flag, field := range map[string]string{
		"first-name": "firstName",
		"last-name":  "lastName",
		"birth-date": "dateOfBirth",
		"diagnosis":  "diagnosis",
		"reason":     "reasonForConsult",
		"notes":      "generalNotes",
	} {
		if cmd.Flags().Changed(flag) {
			value, _ := cmd.Flags().GetString(flag)
			form.Set(field, value)
		}
	}
}

// -- evaluations --

func evaluationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluations",
		Short: "Manage evaluation records",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List evaluations",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			status, _ := cmd.Flags().GetString("status")

			_, log, client, err := setup()
			if err != nil {
				return err
			}
			list := controller.NewEvaluationList(client, log)
			list.Load(cmd.Context())

			if msg := list.LoadError(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			counts := list.Counts()
			fmt.Printf("Completadas: %d  Pendientes: %d  Canceladas: %d  Total: %d\n",
				counts.Completed, counts.Pending, counts.Cancelled, counts.Total)
			printEvaluations(list, list.Filtered(query, status))
			return nil
		},
	}
	listCmd.Flags().String("query", "", "Filter by patient name or document number")
	listCmd.Flags().String("status", "", "Filter by status (COMPLETED, PENDING, CANCELLED)")
	cmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, client, err := setup()
			if err != nil {
				return err
			}
			ev, err := client.GetEvaluation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			patientName := "Paciente no encontrado"
			if p, perr := client.GetPatient(cmd.Context(), ev.PatientID); perr == nil {
				patientName = p.FullName()
			}
			printEvaluationDetail(*ev, patientName)
			return nil
		},
	}
	cmd.AddCommand(getCmd)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an evaluation",
		RunE: func(cmd *cobra.Command, args []string) error {
			patientID, _ := cmd.Flags().GetString("patient")

			_, log, client, err := setup()
			if err != nil {
				return err
			}
			form := controller.NewEvaluationForm(client, client, nil,
				controller.EvaluationFormLogger(log),
				controller.EvaluationFormPatient(patientID),
			)
			applyEvaluationFlags(cmd, form)
			return submitForm(cmd.Context(), form.Submit, form.Errors)
		},
	}
	addEvaluationFlags(createCmd)
	cmd.AddCommand(createCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")

			_, log, client, err := setup()
			if err != nil {
				return err
			}
			list := controller.NewEvaluationList(client, log)
			alert, err := list.Delete(cmd.Context(), args[0], confirmOnTerminal(yes))
			if alert != "" {
				fmt.Fprintln(os.Stderr, alert)
			}
			return err
		},
	}
	deleteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	cmd.AddCommand(deleteCmd)

	return cmd
}

func addEvaluationFlags(cmd *cobra.Command) {
	cmd.Flags().String("patient", "", "Patient ID")
	cmd.Flags().String("date", "", "Evaluation date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().String("voice-quality", "", "Voice quality")
	cmd.Flags().String("voice-intensity", "", "Voice intensity")
	cmd.Flags().String("comprehension", "", "Language comprehension")
	cmd.Flags().String("expression", "", "Language expression")
	cmd.Flags().String("hearing", "", "Hearing result")
	cmd.Flags().String("oral-phase", "", "Swallowing oral phase")
	cmd.Flags().String("pharyngeal-phase", "", "Swallowing pharyngeal phase")
	cmd.Flags().String("observations", "", "General observations")
	cmd.Flags().String("recommendations", "", "Recommendations")
}

func applyEvaluationFlags(cmd *cobra.Command, form *controller.EvaluationForm) {
	for flag, field := range map[string]string{
		"date":             "evaluationDate",
		"voice-quality":    "voiceQuality",
		"voice-intensity":  "voiceIntensity",
		"comprehension":    "comprehension",
		"expression":       "expression",
		"hearing":          "hearingResult",
		"oral-phase":       "oralPhase",
		"pharyngeal-phase": "pharyngealPhase",
		"observations":     "generalObservations",
		"recommendations":  "recommendations",
	} {
		if cmd.Flags().Changed(flag) {
			value, _ := cmd.Flags().GetString(flag)
			form.Set(field, value)
		}
	}
}

// -- documents --

func documentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Manage patient documents",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			patientID, _ := cmd.Flags().GetString("patient")

			_, _, client, err := setup()
			if err != nil {
				return err
			}
			var docs []model.Document
			if patientID != "" {
				docs, err = client.ListDocumentsByPatient(cmd.Context(), patientID)
			} else {
				docs, err = client.ListDocuments(cmd.Context())
			}
			if err != nil {
				return err
			}
			printDocuments(docs)
			return nil
		},
	}
	listCmd.Flags().String("patient", "", "Only documents for this patient ID")
	cmd.AddCommand(listCmd)

	downloadCmd := &cobra.Command{
		Use:   "download <id> <output-file>",
		Short: "Download a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, client, err := setup()
			if err != nil {
				return err
			}
			data, err := client.DownloadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return os.WriteFile(args[1], data, 0o644)
		},
	}
	cmd.AddCommand(downloadCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")

			_, _, client, err := setup()
			if err != nil {
				return err
			}
			if !confirmOnTerminal(yes)("¿Estás seguro de que deseas eliminar este documento?") {
				return nil
			}
			return client.DeleteDocument(cmd.Context(), args[0])
		},
	}
	deleteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	cmd.AddCommand(deleteCmd)

	return cmd
}

// -- dashboard --

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, client, err := setup()
			if err != nil {
				return err
			}
			stats, err := client.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Pacientes: %d\nEvaluaciones: %d\nDocumentos: %d\nEvaluaciones este mes: %d\n",
				stats.TotalPacientes, stats.TotalEvaluaciones, stats.TotalDocumentos, stats.EvaluacionesEsteMes)

			monthly, err := client.MonthlyStats(cmd.Context())
			if err != nil {
				return err
			}
			if len(monthly) > 0 {
				fmt.Println("\nEvaluaciones por mes:")
				for _, m := range monthly {
					fmt.Printf("  %s  %d\n", m.Month, m.Count)
				}
			}
			return nil
		},
	}
}

// -- search --

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the clinic records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			global, _ := cmd.Flags().GetBool("global")
			page, _ := cmd.Flags().GetInt("page")
			limit, _ := cmd.Flags().GetInt("limit")

			_, _, client, err := setup()
			if err != nil {
				return err
			}

			if global {
				result, err := client.SearchGlobal(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Pacientes (%d):\n", len(result.Patients))
				printPatients(result.Patients)
				fmt.Printf("\nEvaluaciones (%d):\n", len(result.Evaluations))
				for _, ev := range result.Evaluations {
					fmt.Printf("  %s  %s  %s\n", shortID(ev.ID), model.DateOnly(ev.EvaluationDate), ev.DisplayStatus())
				}
				return nil
			}

			result, err := client.SearchPatients(cmd.Context(), args[0], page, limit)
			if err != nil {
				return err
			}
			fmt.Printf("Página %d (%d en total):\n", result.Page, result.Total)
			printPatients(result.Patients)
			return nil
		},
	}
	cmd.Flags().Bool("global", false, "Search across all record families")
	cmd.Flags().Int("page", 1, "Result page")
	cmd.Flags().Int("limit", 10, "Results per page")
	return cmd
}

// -- sandbox --

func sandboxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sandbox",
		Short: "Run the in-memory demo backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, _, err := setup()
			if err != nil {
				return err
			}
			store := sandbox.NewStore()
			if cfg.SandboxSeed {
				sandbox.Seed(store)
			}
			srv := sandbox.NewServer(store, log)
			log.Info().Str("port", cfg.SandboxPort).Msg("sandbox backend listening")
			return srv.Start(":" + cfg.SandboxPort)
		},
	}
}

// -- output helpers --

func submitForm(ctx context.Context, submit func(context.Context) error, errs func() map[string]string) error {
	if err := submit(ctx); err != nil {
		for field, msg := range errs() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
		}
		return err
	}
	fmt.Println("Guardado correctamente")
	return nil
}

func printPatients(patients []model.Patient) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOMBRE\tEDAD\tDIAGNÓSTICO\tESTADO")
	now := time.Now()
	for _, p := range patients {
		age := "N/D"
		if years := derive.Age(p.DateOfBirth, now); years != derive.AgeUnknown {
			age = fmt.Sprintf("%d años", years)
		}
		status := "Activo"
		if !p.IsActive {
			status = "Inactivo"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", shortID(p.ID), p.FullName(), age, p.Diagnosis, status)
	}
	w.Flush()
}

func printPatientDetail(p model.Patient, evs []model.Evaluation, docs []model.Document) {
	fmt.Printf("%s\n", p.FullName())
	if years := derive.Age(p.DateOfBirth, time.Now()); years != derive.AgeUnknown {
		fmt.Printf("Edad: %d años\n", years)
	} else {
		fmt.Println("Edad: No disponible")
	}
	fmt.Printf("Diagnóstico: %s\nMotivo de consulta: %s\n", p.Diagnosis, p.ReasonForConsult)
	if p.GeneralNotes != "" {
		fmt.Printf("Notas: %s\n", p.GeneralNotes)
	}

	fmt.Printf("\nEvaluaciones (%d):\n", len(evs))
	for _, ev := range evs {
		fmt.Printf("  %s  %s  %s  voz: %s\n",
			shortID(ev.ID), model.DateOnly(ev.EvaluationDate), ev.DisplayStatus(),
			derive.ClassifyAreaStatus(ev.VoiceQuality))
	}

	fmt.Printf("\nDocumentos (%d):\n", len(docs))
	for _, d := range docs {
		fmt.Printf("  %s  %s  %d bytes\n", shortID(d.ID), d.FileName, d.FileSize)
	}
}

func printEvaluations(list *controller.EvaluationList, evs []model.Evaluation) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFECHA\tPACIENTE\tESTADO")
	for _, ev := range evs {
		name := "Paciente no encontrado"
		if p, ok := list.Patient(ev.PatientID); ok {
			name = p.FullName()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(ev.ID), model.DateOnly(ev.EvaluationDate), name, ev.DisplayStatus())
	}
	w.Flush()
}

func printEvaluationDetail(ev model.Evaluation, patientName string) {
	fmt.Printf("Evaluación #%s\n", shortID(ev.ID))
	fmt.Printf("Paciente: %s\nFecha: %s\nEstado: %s\n", patientName, model.DateOnly(ev.EvaluationDate), ev.DisplayStatus())
	fmt.Printf("Voz: %s (%s)\n", orDash(ev.VoiceQuality), derive.ClassifyAreaStatus(ev.VoiceQuality))
	fmt.Printf("Comprensión: %s (%s)\n", orDash(ev.Comprehension), derive.ClassifyAreaStatus(ev.Comprehension))
	fmt.Printf("Audición: %s (%s)\n", orDash(ev.HearingResult), derive.ClassifyAreaStatus(ev.HearingResult))
	fmt.Printf("Deglución: %s (%s)\n", orDash(ev.OralPhase), derive.ClassifyAreaStatus(ev.OralPhase))
	fmt.Printf("Observaciones: %s\n", ev.GeneralObservations)
	if ev.Recommendations != "" {
		fmt.Printf("Recomendaciones: %s\n", ev.Recommendations)
	}
}

func printDocuments(docs []model.Document) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tARCHIVO\tTIPO\tTAMAÑO\tFECHA")
	for _, d := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", shortID(d.ID), d.FileName, d.FileType, d.FileSize, model.DateOnly(d.UploadDate))
	}
	w.Flush()
}

// shortID renders the trailing 6 characters of an ID, the form shown in the
// UI headers.
func shortID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
