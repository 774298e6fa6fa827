package processor

import "testing"

func TestDetect(t *testing.T) {
	d := NewDetector([]string{"English", "German", "Russian"}, "English")

	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "The quick brown fox jumps over the lazy dog while the children are playing in the garden and their parents are watching.", "English"},
		{"russian", "Сегодня мы поговорим о том, как правильно планировать свой день и не терять время на бесполезные занятия и разговоры.", "Russian"},
		{"german", "Heute sprechen wir darüber, wie man seinen Tag richtig plant und keine Zeit mit unnötigen Dingen verschwendet, weil das wichtig ist.", "German"},
		{"empty", "   ", "English"},
		{"unsupported", "Hoy vamos a hablar de cómo planificar correctamente el día y no perder el tiempo en actividades inútiles y conversaciones.", "English"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Detect(tt.text); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFallback(t *testing.T) {
	d := NewDetector(nil, "German")
	if got := d.Detect("Plain English text that would normally be detected as English."); got != "German" {
		t.Errorf("Detect() = %v, want fallback German", got)
	}
	if got := NewDetector(nil, "").Detect(""); got != "English" {
		t.Errorf("Detect() = %v, want default fallback English", got)
	}
}
