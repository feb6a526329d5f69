/*
Package templating renders generated text through filesystem-based Go
templates. Templates are plain text/template files named "*.tmpl.txt" and
may share definitions from "*.part.txt" partials in the same directory.

Templates pull content from a Source bound to the manager, usually a finalized
markov.Generator wrapped with RuneSource or WordSource:

	{{generate 120 | wrap 60}}
	{{range repeat 3}}- {{words 8 | upper}}
	{{end}}

Successive calls continue the same walk, so a template reads as one
continuous piece of generated text. A TemplateManager is not safe for
concurrent use.
*/
package templating
