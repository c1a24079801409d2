package explain

import (
	"fmt"
	"strings"

	"github.com/Bradwave/parabolawhat/internal/quadratic"
)

const systemPrompt = `Sei un tutor di matematica paziente per studenti delle superiori. Lo studente sta imparando a collegare l'equazione y = ax² + bx + c al grafico della parabola e ha appena sbagliato un esercizio. Rispondi sempre in italiano.`

func buildUserMessage(in Input) string {
	var b strings.Builder
	q := in.Question.Coeffs

	fmt.Fprintf(&b, "Esercizio: %s\n", in.Mode.DisplayName())
	fmt.Fprintf(&b, "Equazione corretta: %s\n", in.Question.Equation())
	fmt.Fprintf(&b, "Coefficienti: a = %s, b = %s, c = %s\n",
		quadratic.Num(q.A), quadratic.Num(q.B), quadratic.Num(q.C))

	xv, yv := q.Vertex()
	concavity := "verso l'alto"
	if q.Concavity() < 0 {
		concavity = "verso il basso"
	}
	fmt.Fprintf(&b, "Vertice: (%.2f, %.2f), concavità %s\n", xv, yv, concavity)
	fmt.Fprintf(&b, "Discriminante: %s, intersezioni con l'asse x: %d\n",
		quadratic.Num(q.Discriminant()), q.ExpectedRoots())

	b.WriteString("\nRisposta dello studente: ")
	if in.Answer == "" {
		b.WriteString("(vuota)\n")
	} else {
		b.WriteString(in.Answer + "\n")
	}

	if len(in.Feedback) > 0 {
		b.WriteString("\nErrori rilevati:\n")
		for _, f := range in.Feedback {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}

	b.WriteString(`
Istruzioni:
1. Spiega in 2-4 frasi quale proprietà della parabola lo studente ha sbagliato e come si legge dall'equazione.
2. Dai un solo consiglio pratico da controllare la prossima volta.
3. Indica in "focus" il coefficiente coinvolto (a, b, c) oppure "shape" se l'errore riguarda la forma in generale.
4. Usa testo semplice, senza LaTeX. Scrivi le potenze come x².`)

	return b.String()
}
