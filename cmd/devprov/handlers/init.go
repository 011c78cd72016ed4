package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = wizard.FileExists

	// confirmOverwrite asks before replacing an existing file.
	confirmOverwrite = wizard.ConfirmOverwrite

	// runWizard runs the interactive wizard.
	runWizard = wizard.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = wizard.WriteConfig

	// ensureKey generates an SSH key pair unless one exists.
	ensureKey = wizard.EnsureKey
)

// Init runs the configuration wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string, advanced, fullOutput bool) error {
	if fileExists(outputPath) {
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	printWelcome()

	result, err := runWizard(ctx, advanced)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	if result.GenerateKey {
		created, err := ensureKey(result.IdentityFile, "devprov@"+result.EnvironmentName)
		if err != nil {
			return fmt.Errorf("failed to generate SSH key: %w", err)
		}
		if created {
			fmt.Printf("Generated SSH key pair %s (.pub)\n", result.IdentityFile)
		} else {
			fmt.Printf("Keeping existing SSH key %s\n", result.IdentityFile)
		}
	}

	cfg := wizard.BuildConfig(result)
	if err := writeConfig(cfg, outputPath, fullOutput); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, result)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("devprov - development host provisioning")
	fmt.Println("=======================================")
	fmt.Println()
	fmt.Println("This wizard creates a devprov.yaml with one environment.")
	fmt.Println("Everything else uses the defaults and can be edited later.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, result *wizard.WizardResult) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Environment Summary")
	fmt.Println("-------------------")
	fmt.Printf("  Name:     %s\n", result.EnvironmentName)
	if result.Kind == wizard.KindVagrant {
		fmt.Printf("  Vagrant:  machine %s\n", valueOr(result.Machine, config.DefaultVagrantMachine))
	} else {
		fmt.Printf("  SSH:      %s@%s:%s\n", result.User, result.Host, valueOr(result.Port, "22"))
		fmt.Printf("  Key:      %s\n", result.IdentityFile)
	}
	fmt.Printf("  Timezone: %s\n", valueOr(result.Timezone, config.DefaultTimezone))
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	step := 1
	if result.Kind == wizard.KindVagrant {
		fmt.Printf("  %d. Start the machine:\n", step)
		fmt.Println("     vagrant up")
		step++
	} else if result.GenerateKey {
		fmt.Printf("  %d. Authorize the key on the host:\n", step)
		fmt.Printf("     ssh-copy-id -i %s.pub %s@%s\n", result.IdentityFile, result.User, result.Host)
		step++
	}
	fmt.Println()
	fmt.Printf("  %d. Check the environment:\n", step)
	fmt.Printf("     devprov doctor -e %s\n", result.EnvironmentName)
	fmt.Println()
	fmt.Printf("  %d. Provision it:\n", step+1)
	fmt.Printf("     devprov provision -e %s\n", result.EnvironmentName)
	fmt.Println()
}
