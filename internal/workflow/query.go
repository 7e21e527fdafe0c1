package workflow

// IndexOf возвращает позицию статуса в потоке или -1, если статуса в потоке нет.
func (f Flow) IndexOf(s Status) int {
	if i, ok := f.index[s]; ok {
		return i
	}
	return -1
}

// Next - следующий статус. false, если статус последний или отсутствует.
func (f Flow) Next(s Status) (Status, bool) {
	i := f.IndexOf(s)
	if i < 0 || i >= len(f.steps)-1 {
		return "", false
	}
	return f.steps[i+1].Status, true
}

// Previous - предыдущий статус. false, если статус первый или отсутствует.
func (f Flow) Previous(s Status) (Status, bool) {
	i := f.IndexOf(s)
	if i <= 0 {
		return "", false
	}
	return f.steps[i-1].Status, true
}

// Progress - процент прохождения потока в диапазоне [0, 100].
// Отсутствующий статус даёт 0, поток из одного шага - 100.
func (f Flow) Progress(s Status) float64 {
	i := f.IndexOf(s)
	if i < 0 {
		return 0
	}
	if len(f.steps) <= 1 {
		return 100
	}
	return float64(i) / float64(len(f.steps)-1) * 100
}
