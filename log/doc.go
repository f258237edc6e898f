/*
Package log is a leveled, key/value logger in the log15 tradition.

Call sites pass a message and alternating key/value pairs:

	log.Warn("Pool box address differs from config", "box", id, "register", "R6")

Records are routed through a Handler. The root logger discards everything
until a handler is installed, typically by a command's startup code:

	log.Root().SetHandler(log.LvlFilterHandler(log.LvlInfo,
		log.StreamHandler(colorable.NewColorableStderr(), log.TerminalFormat(true))))

Handlers are safe for concurrent use once wrapped by StreamHandler or
SyncHandler, and the root handler can be swapped while other goroutines log.
*/
package log
