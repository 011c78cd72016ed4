// Package templates renders the files devprov drops on the target.
//
// Templates use text/template with the sprig function library. Project
// templates are read from the local templates directory; when a template is
// absent there, an embedded default is used instead.
package templates
