// Package pins adapts host GPIO libraries to the clock/data pin
// capabilities of the hx711 package.
//
// Three backends are provided:
//
//   - Periph: any pin periph.io knows by name ("GPIO5", "P1_29", ...).
//   - RPIO: BCM pin numbers through github.com/stianeikeland/go-rpio.
//   - Mem: BCM pin numbers through github.com/warthog618/gpio.
//
// Both RPIO and Mem map /dev/gpiomem and must not be used at the same time.
package pins
