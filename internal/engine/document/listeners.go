package document

// AddListener registers l for change notifications. Adding a registered
// listener is a no-op.
func (d *Document) AddListener(l Listener) {
	d.listeners = addListener(d.listeners, l)
}

// RemoveListener unregisters l.
func (d *Document) RemoveListener(l Listener) {
	d.listeners = removeListener(d.listeners, l)
}

// AddPrenotifiedListener registers l to be notified before every ordinary
// listener, in both phases. Documents layered on top of this one use it so
// they are consistent before anyone else looks at them.
func (d *Document) AddPrenotifiedListener(l Listener) {
	d.prenotified = addListener(d.prenotified, l)
}

// RemovePrenotifiedListener unregisters a prenotified listener.
func (d *Document) RemovePrenotifiedListener(l Listener) {
	d.prenotified = removeListener(d.prenotified, l)
}

func (d *Document) fireAboutToChange(e Event) {
	for _, l := range snapshot(d.prenotified) {
		l.DocumentAboutToChange(e)
	}
	for _, l := range snapshot(d.listeners) {
		l.DocumentAboutToChange(e)
	}
}

func (d *Document) fireChanged(e Event) {
	for _, l := range snapshot(d.prenotified) {
		l.DocumentChanged(e)
	}
	for _, l := range snapshot(d.listeners) {
		l.DocumentChanged(e)
	}
}

func addListener(list []Listener, l Listener) []Listener {
	for _, known := range list {
		if known == l {
			return list
		}
	}
	return append(list, l)
}

func removeListener(list []Listener, l Listener) []Listener {
	for i, known := range list {
		if known == l {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func snapshot(list []Listener) []Listener {
	if len(list) == 0 {
		return nil
	}
	out := make([]Listener, len(list))
	copy(out, list)
	return out
}
