package config

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/mitchellh/go-wordwrap"
)

var dbTypes = []string{"MySQL", "PostgreSQL", "SQLite"}

// Configure walks through an interactive setup of the config file at fname,
// starting from its current contents when it exists, and saves the result.
func Configure(fname string) (*Config, error) {
	if fname == "" {
		fname = FileName
	}
	c, err := Load(fname)
	if err != nil {
		fmt.Println("No configuration yet. Creating new.")
		c = New()
	} else {
		fmt.Println("Configuration loaded.")
	}
	title := color.New(color.Bold, color.BgGreen).PrintlnFunc()

	intro := color.New(color.Bold, color.FgWhite).PrintlnFunc()
	fmt.Println()
	intro("  fluentdb configuration")
	fmt.Println()
	fmt.Println(wordwrap.WrapString("  This will generate the connection settings used by fluentdb, saved to "+fname+".\n\n  Each value is checked as you go. To write the file by hand instead, run: fluentdb config generate and edit the result.", 75))
	fmt.Println()

	title(" Database setup ")
	fmt.Println()

	tmpls := &promptui.PromptTemplates{
		Success: "{{ . | bold | faint }}: ",
	}
	selTmpls := &promptui.SelectTemplates{
		Selected: `{{.Label}} {{ . | faint }}`,
	}

	selPrompt := promptui.Select{
		Templates: selTmpls,
		Label:     "Database type",
		Items:     dbTypes,
	}
	_, dbType, err := selPrompt.Run()
	if err != nil {
		return nil, err
	}

	switch dbType {
	case "SQLite":
		c.UseSQLite(c.Database.FileName == "")
		prompt := promptui.Prompt{
			Templates: tmpls,
			Label:     "Filename",
			Validate:  validateNonEmpty,
			Default:   c.Database.FileName,
		}
		c.Database.FileName, err = prompt.Run()
		if err != nil {
			return nil, err
		}
	default:
		if dbType == "PostgreSQL" {
			c.UsePostgres(c.Database.Type != TypePostgres)
		} else {
			c.UseMySQL(c.Database.Type != TypeMySQL)
		}
		if err := configureServer(c, tmpls); err != nil {
			return nil, err
		}
	}

	fmt.Println()
	title(" Query logging ")
	fmt.Println()

	selPrompt = promptui.Select{
		Templates: selTmpls,
		Label:     "Log queries",
		Items:     []string{"Enabled", "Disabled"},
	}
	_, logType, err := selPrompt.Run()
	if err != nil {
		return nil, err
	}
	c.Log.Queries = logType == "Enabled"

	if c.Log.Queries {
		selPrompt = promptui.Select{
			Templates: selTmpls,
			Label:     "Log parameters",
			Items:     []string{"No", "Yes"},
		}
		_, paramsType, err := selPrompt.Run()
		if err != nil {
			return nil, err
		}
		c.Log.Params = paramsType == "Yes"

		prompt := promptui.Prompt{
			Templates: tmpls,
			Label:     "Slow query threshold (ms, 0 to disable)",
			Validate:  validateMillis,
			Default:   strconv.Itoa(c.Log.SlowQueryMS),
		}
		slow, err := prompt.Run()
		if err != nil {
			return nil, err
		}
		c.Log.SlowQueryMS, _ = strconv.Atoi(slow) // Ignore error, as we've already validated number
	}

	return c, Save(c, fname)
}

func configureServer(c *Config, tmpls *promptui.PromptTemplates) error {
	var err error
	prompt := promptui.Prompt{
		Templates: tmpls,
		Label:     "Username",
		Validate:  validateNonEmpty,
		Default:   c.Database.User,
	}
	c.Database.User, err = prompt.Run()
	if err != nil {
		return err
	}

	prompt = promptui.Prompt{
		Templates: tmpls,
		Label:     "Password",
		Validate:  validateNonEmpty,
		Default:   c.Database.Password,
		Mask:      '*',
	}
	c.Database.Password, err = prompt.Run()
	if err != nil {
		return err
	}

	prompt = promptui.Prompt{
		Templates: tmpls,
		Label:     "Database name",
		Validate:  validateNonEmpty,
		Default:   c.Database.Database,
	}
	c.Database.Database, err = prompt.Run()
	if err != nil {
		return err
	}

	prompt = promptui.Prompt{
		Templates: tmpls,
		Label:     "Host",
		Validate:  validateNonEmpty,
		Default:   c.Database.Host,
	}
	c.Database.Host, err = prompt.Run()
	if err != nil {
		return err
	}

	prompt = promptui.Prompt{
		Templates: tmpls,
		Label:     "Port",
		Validate:  validatePort,
		Default:   fmt.Sprintf("%d", c.Database.Port),
	}
	dbPort, err := prompt.Run()
	if err != nil {
		return err
	}
	c.Database.Port, _ = strconv.Atoi(dbPort) // Ignore error, as we've already validated number
	return nil
}
