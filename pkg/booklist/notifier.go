package booklist

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(msg string)
}

type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) {
	f(msg)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}
