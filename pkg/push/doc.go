// Package push receives server-pushed messages and applies them to loaded
// topicmaps.
//
// Every push message has the shape {"type": ..., "args": ...}. [Client]
// reads messages from a websocket and hands them to a channel. A
// [Dispatcher] consumes that channel one message at a time:
//
//   - directive types (UPDATE_TOPIC, DELETE_TOPIC, ...) go to the
//     directive reconciler
//   - processDirectives carries an ordered list of directives
//   - sync actions (addTopicToTopicmap, setTopicPosition, ...) mirror
//     changes other clients made to a shared topicmap, in memory only
//
// An unrecognized type is an UNKNOWN_MESSAGE error.
//
//	msgs := make(chan push.Message, 32)
//	go pc.Run(ctx, msgs)
//	err := push.NewDispatcher(rec, reg, logger).Run(ctx, msgs)
//
// The dispatcher is the only goroutine that touches the view models, so
// UI actions must be funneled through the same loop.
package push
