package server

//go:generate swag init -g swagger.go -d ./,../app,../engine,../registry -o ../../docs

// @title API Avaluador
// @version 0.1
// @description Valoración de equipos de cómputo usados para préstamo.

// @contact.name Soporte PrestaFácil

// @BasePath /
