package web

import (
	"path"

	"github.com/imamik/devprov/internal/provisioning"
	"github.com/imamik/devprov/internal/remote"
)

// Task names.
const (
	CertificatesName  = "setup-certificates"
	ApacheName        = "setup-apache"
	SimpleSAMLphpName = "setup-simplesamlphp"
)

// Certificates copies the certs template tree into the SSL directory.
type Certificates struct{}

// NewCertificates creates the task.
func NewCertificates() *Certificates {
	return &Certificates{}
}

// Name implements provisioning.Task.
func (t *Certificates) Name() string {
	return CertificatesName
}

// Provision implements provisioning.Task.
func (t *Certificates) Provision(ctx *provisioning.Context) error {
	return copyTree(ctx, t.Name(), "certs", ctx.Config.Web.SSLDir)
}

// Apache copies the apache2 template tree into the config directory.
type Apache struct{}

// NewApache creates the task.
func NewApache() *Apache {
	return &Apache{}
}

// Name implements provisioning.Task.
func (t *Apache) Name() string {
	return ApacheName
}

// Provision implements provisioning.Task.
func (t *Apache) Provision(ctx *provisioning.Context) error {
	return copyTree(ctx, t.Name(), "apache2", ctx.Config.Web.ConfigDir)
}

// SimpleSAMLphp installs the SimpleSAMLphp configuration, enables the
// example authentication module, links its Apache config and then starts
// or restarts Apache.
type SimpleSAMLphp struct{}

// NewSimpleSAMLphp creates the task.
func NewSimpleSAMLphp() *SimpleSAMLphp {
	return &SimpleSAMLphp{}
}

// Name implements provisioning.Task.
func (t *SimpleSAMLphp) Name() string {
	return SimpleSAMLphpName
}

// Provision implements provisioning.Task.
func (t *SimpleSAMLphp) Provision(ctx *provisioning.Context) error {
	web := ctx.Config.Web
	saml := web.SimpleSAMLphp

	if err := copyTree(ctx, t.Name(), "simplesamlphp", web.ConfigDir); err != nil {
		return err
	}

	enabled, err := ctx.Host.File(ctx, saml.ModuleEnable, remote.FileOptions{UseSudo: true})
	if err != nil {
		return err
	}
	provisioning.LogResource(ctx.Observer, t.Name(), "file", saml.ModuleEnable, enabled)

	linked, err := ctx.Host.EnsureSymlink(ctx, saml.ApacheConf, saml.ApacheLink, true)
	if err != nil {
		return err
	}
	provisioning.LogResource(ctx.Observer, t.Name(), "symlink", saml.ApacheLink, linked)

	if err := ctx.Host.Restarted(ctx, web.ApacheService); err != nil {
		return err
	}
	provisioning.LogResource(ctx.Observer, t.Name(), "service", web.ApacheService, true)
	return nil
}

// copyTree copies <remote templates>/<name> recursively into dest as root.
func copyTree(ctx *provisioning.Context, task, name, dest string) error {
	src := path.Join(ctx.Config.RemoteTemplatesRoot(), name)
	if err := ctx.Host.Copy(ctx, src, dest, true, true); err != nil {
		return err
	}
	provisioning.LogResource(ctx.Observer, task, "directory", path.Join(dest, name), true)
	return nil
}
