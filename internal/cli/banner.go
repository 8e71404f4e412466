package cli

import (
	"math/rand"
	"strings"

	"github.com/common-nighthawk/go-figure"
)

var greetings = [...]string{
	"Your chatbots missed you.",
	"The knowledge base is exactly where you left it.",
	"Somebody should train that support bot. It might as well be you.",
	"Fresh token, clean slate.",
	"Quotas checked, keys masked, ready when you are.",
	"Run agentui to open the console.",
}

// greeting picks a line shown after a successful sign-in.
func greeting() string {
	return greetings[rand.Intn(len(greetings))]
}

// banner renders the product name in ASCII art.
func banner() string {
	return strings.TrimRight(figure.NewFigure("agentui", "cybermedium", true).String(), "\n")
}
