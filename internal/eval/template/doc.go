// Package template provides the Handlebars engine that renders composed
// schemas.
//
// An Engine creates templates either from a file or empty; schemas are
// installed into a template as structured values, JSON text or MessagePack
// and merged in the order they are installed. The schema object is the
// render context.
//
// Example usage:
//
//	engine := template.NewEngine(template.WithBaseDir("templates"))
//
//	tpl := engine.New()
//	tpl.SetSource("Message: {{data.message}}\nPriority: {{uppercase data.priority}}")
//	if err := tpl.InstallText(`{"data": {"message": "Hello World", "priority": "high"}}`); err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := tpl.RenderOnce()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Output: Message: Hello World
//	//         Priority: HIGH
//
// Every render reports a Status. A successful render reports "200 OK"; a
// parse or execution failure reports "500 Internal Server Error" with the
// error message as the status parameter. Templates can set their own status
// with the status helper.
//
// Built-in helpers:
//   - uppercase - Convert string to uppercase
//   - lowercase - Convert string to lowercase
//   - trim - Trim whitespace from string
//   - default - Return default value if first arg is empty
//   - eq - Equality comparison (numbers compare by value)
//   - ne - Inequality comparison
//   - gt - Greater than (for numbers)
//   - lt - Less than (for numbers)
//   - contains - Check if string contains substring
//   - join - Join array elements with separator
//   - len - Get length of array/string/map
//   - json - Write a value as JSON
//   - status - Set the status code, text and parameter
//   - when - Block rendered when a CEL condition holds (requires WithCEL)
//
// Example with helpers:
//
//	{{uppercase name}}                            # "JOHN"
//	{{default value "N/A"}}                       # "N/A" if value is empty
//	{{#if (gt score 0.8)}}...{{/if}}              # Numeric comparison
//	{{join items ", "}}                           # "a, b, c"
//	{{status "404" param="/missing"}}             # 404 Not Found
//	{{#when "schema.data.count > 2"}}many{{/when}} # CEL condition
package template
