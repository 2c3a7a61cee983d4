// Publisher turns hybrid markdown content into rendered webpages.
//
// Source files mix free prose with fenced YAML declarations; Publisher
// parses them into a content tree, merges the site configuration, and
// renders every Jinja-style template into a static page.
//
// Usage:
//
//	# Build the site into ./public
//	publisher build
//
//	# Build and serve with live rebuild on change
//	publisher serve --watch
//
//	# Show version information
//	publisher version
package main

func main() {
	Execute()
}
