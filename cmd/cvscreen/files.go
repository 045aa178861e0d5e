package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"alfredoptarigan/cv-screener/internal/client"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/services"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <candidate-name>",
	Short: "Download a candidate's resume",
	Long:  "Download a candidate's resume to a file, or print its text with --text.",
	Args:  cobra.ExactArgs(1),
	RunE:  runResume,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload resumes",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUpload,
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Show the file types the backend accepts",
	RunE:  runTypes,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is up",
	RunE:  runHealth,
}

var (
	resumeOut  string
	resumeText bool

	uploadRequirement string
	uploadProcess     bool
)

func init() {
	resumeCmd.Flags().StringVarP(&resumeOut, "out", "o", "", "Output file (default <candidate-name>.pdf)")
	resumeCmd.Flags().BoolVar(&resumeText, "text", false, "Print the extracted resume text instead of saving the file")

	uploadCmd.Flags().StringVarP(&uploadRequirement, "requirement", "r", "", "Requirement the resumes belong to")
	uploadCmd.Flags().BoolVar(&uploadProcess, "process", false, "Queue the uploaded resumes for processing (needs --requirement)")

	rootCmd.AddCommand(resumeCmd, uploadCmd, typesCmd, healthCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	a, err := newAuthedApp()
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := a.client.CV.DownloadResume(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("%s", client.FormatError(err))
	}

	if resumeText {
		content, err := services.NewPDFParserService().ExtractTextFromBytes(data)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), services.CleanText(content.Text))
		return nil
	}

	out := resumeOut
	if out == "" {
		out = filepath.Base(args[0]) + ".pdf"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write resume: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", out, len(data))
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadProcess && uploadRequirement == "" {
		return fmt.Errorf("--process requires --requirement")
	}

	a, err := newAuthedApp()
	if err != nil {
		return err
	}
	defer a.Close()

	files := make([]client.UploadFile, 0, len(args))
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		files = append(files, client.UploadFile{Name: filepath.Base(path), Content: f})
	}

	result := a.client.CV.UploadFiles(cmd.Context(), files, uploadRequirement)
	if err := resultError(result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ids := uploadedIDs(result.Data)
	fmt.Fprintf(out, "Uploaded %d file(s)\n", len(ids))

	if !uploadProcess {
		return nil
	}
	processed := a.client.CV.ProcessUploadedFiles(cmd.Context(), models.ProcessUploadsRequest{
		RequirementID: uploadRequirement,
		DocumentIDs:   ids,
	})
	if err := resultError(processed); err != nil {
		return err
	}
	msg, _ := processed.Data["message"].(string)
	fmt.Fprintf(out, "%s for %s\n", msg, uploadRequirement)
	return nil
}

// uploadedIDs pulls document ids out of an upload response.
func uploadedIDs(data map[string]any) []string {
	docs, _ := data["documents"].([]any)
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		doc, ok := d.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := doc["id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func runTypes(cmd *cobra.Command, _ []string) error {
	a, err := newAuthedApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.client.CV.GetSupportedFileTypes(cmd.Context())
	if err := resultError(result); err != nil {
		return err
	}
	return printFields(cmd.OutOrStdout(), result.Data)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.client.Core.HealthCheck(cmd.Context())
	if err := resultError(result); err != nil {
		return err
	}
	status, _ := result.Data["status"].(string)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.client.BaseURL(), status)
	return nil
}
