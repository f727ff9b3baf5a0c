// Package directive turns server-pushed change notifications into view-model
// mutations.
//
// A [Directive] is a tagged union: Type names the change and Arg carries the
// affected object as raw JSON. The [Reconciler] applies directives strictly
// one at a time in delivery order, to every loaded view model:
//
//	UPDATE_TOPIC        refresh the topic where it is shown (policy-dependent)
//	DELETE_TOPIC        drop the topic and its associations
//	UPDATE_ASSOCIATION  refresh the association where it is shown
//	DELETE_ASSOCIATION  drop the association
//
// Schema directives (topic and association type changes) are logged and
// skipped. Any other type is an UNKNOWN_DIRECTIVE error.
package directive
