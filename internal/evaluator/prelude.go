package evaluator

// messageField and causeField are read by the runtime when an exception
// instance is thrown.
const (
	messageField = "message"
	causeField   = "cause"
)

// prelude declares the System namespace.
const prelude = `
class Exception {
	string message;
	Exception cause;

	Exception() { }
	Exception(string message) {
		this.message = message;
	}
	Exception(string message, Exception cause) {
		this.message = message;
		this.cause = cause;
	}

	string getMessage() { return message; }
	Exception getCause() { return cause; }
}

class RuntimeCheckException : Exception { }
class DivByZeroException : RuntimeCheckException { }
class NullReferenceException : RuntimeCheckException { }
class ArrayOutOfRangeException : RuntimeCheckException { }
class ClassCastException : RuntimeCheckException { }
class UndefinedSymbolException : RuntimeCheckException { }
class TypeIncompatibleException : RuntimeCheckException { }
class IllegalArgumentException : RuntimeCheckException { }

class StackOverflowException : Exception { }
class BadSyntaxException : Exception { }
class CyclicDependencyException : Exception { }
class IOException : Exception { }
`
