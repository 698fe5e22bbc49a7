package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "log grounded and jump transitions")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	sceneName := flag.String("scene", "sandbox.yaml", "scene file in prefabs/ (basename, .yaml optional)")
	watch := flag.Bool("watch", true, "watch prefabs/ with fsnotify (otherwise the player file is polled once a second)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("powder sandbox")

	game, err := NewGame(*sceneName, *debug, *watch)
	if err != nil {
		log.Fatal(err)
	}

	err = ebiten.RunGame(game)
	game.Close()
	if err != nil {
		log.Fatal(err)
	}
}
