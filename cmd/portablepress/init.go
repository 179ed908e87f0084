package main

import (
	"fmt"
	"path/filepath"

	"github.com/eringen/portablepress/scaffold"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir       string `arg:"" optional:"" help:"Project directory" default:"." type:"path"`
	Force     bool   `help:"Overwrite existing files"`
	Name      string `help:"Site name (defaults to the directory name)"`
	SiteURL   string `name:"site-url" help:"Canonical site URL" default:"http://localhost:3000"`
	ProjectID string `name:"project-id" help:"Sanity project id"`
	Dataset   string `help:"Sanity dataset" default:"production"`
}

func (i *InitCmd) Run(_ *Global) error {
	name := i.Name
	if name == "" {
		abs, err := filepath.Abs(i.Dir)
		if err != nil {
			return err
		}
		name = scaffold.Title(filepath.Base(abs))
	}

	fmt.Printf("Initializing portablepress project in %s\n", i.Dir)
	written, err := scaffold.Write(i.Dir, scaffold.Data{
		SiteName:  name,
		SiteURL:   i.SiteURL,
		ProjectID: i.ProjectID,
		Dataset:   i.Dataset,
	}, i.Force)
	for _, p := range written {
		fmt.Printf("  created %s\n", p)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Done! Next steps:")
	fmt.Println("  cp .env.example .env   # set SANITY_PROJECT_ID and SESSION_SECRET")
	fmt.Println("  portablepress build")
	fmt.Println("  portablepress serve")
	return nil
}

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("portablepress %s\n", version)
	return nil
}
