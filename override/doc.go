/*
Package override applies explicit update and remove directives to documents.

Directives are the second merge source, applied after table rows. Each one
names a path and an operation:

	- path: $.status
	  operation: update
	  value: archived
	- path: $.legacy.code
	  operation: remove

JSON input is accepted as well, since [ParseDirectives] decodes through YAML.

# Semantics

Directives run in order and each sees the effects of the ones before it.

An update writes its value verbatim, with no casting, because the value is
already structured. When the path holds a non-null value, the new value must
have the same [typecast.Tag]; otherwise the directive is skipped with a
*mergeerrors.TypeMismatchError. When the path is absent or null, it is
created along with any missing intermediate maps.

A remove deletes the path from its parent map or list. Removing a path that
does not exist succeeds without changing anything, so remove is idempotent.

# Failure isolation

A directive is skipped, never fatal, when it:
  - fails [Validate] (missing path, unknown operation, update without value)
  - would change an existing value's type
  - conflicts with the existing structure (a field step into a list)

Each skip is recorded in [Result.Outcomes] and [Result.Warnings]. Use
[Warnings.ByCategory] to select one kind of skip:

	result := override.NewApplier().Apply(obj, directives)
	for _, w := range result.Warnings.ByCategory(override.WarnTypeMismatch) {
	    fmt.Println(w)
	}
*/
package override
