package app

import (
	"context"
	"fmt"
	"runtime"

	"observer/broker"
	"observer/broker/channel"
	"observer/chat"
	"observer/market"
	"observer/monitor"
	"observer/station"
)

// runWeather attaches a display and a one-shot alert to a weather station.
// The alert detaches itself and the display is cancelled before the last reading.
func (a *App) runWeather(context.Context) error {
	ws := station.New(DemoWeather, channel.WithReporter(a.reporter))
	display := station.NewCurrentDisplay(a.out)
	alert := station.NewHighTempAlert(30, a.out)

	sub, err := channel.Subscribe(ws.Channel(), display)
	if err != nil {
		return err
	}
	defer sub.Close()
	once, err := channel.Subscribe(ws.Channel(), alert)
	if err != nil {
		return err
	}
	alert.Attach(once)

	readings := []station.Measurement{
		{Temperature: 28, Humidity: 60, Pressure: 1010},
		{Temperature: 30, Humidity: 58, Pressure: 1009},
		{Temperature: 31, Humidity: 55, Pressure: 1008},
	}
	for _, m := range readings {
		if err := ws.SetMeasurements(m); err != nil {
			return err
		}
	}
	sub.Cancel()
	if err := ws.SetMeasurements(station.Measurement{Temperature: 29, Humidity: 50, Pressure: 1007}); err != nil {
		return err
	}

	runtime.KeepAlive(display)
	runtime.KeepAlive(alert)
	return nil
}

// runChat shows keyword and block filters, echo suppression, a member leaving
// and the room being closed.
func (a *App) runChat(context.Context) error {
	room := chat.NewRoom(DemoChat, channel.WithReporter(a.reporter))
	alice := chat.NewDisplay("Alice", a.out)
	bob := chat.NewDisplay("Bob", a.out)
	carol := chat.NewDisplay("Carol", a.out)
	bell := chat.NewBell("Bell", "Bell", a.out)

	if _, err := chat.Join(room, alice); err != nil {
		return err
	}
	sb, err := chat.Join(room, bob, chat.Keyword("urgent"))
	if err != nil {
		return err
	}
	if _, err := chat.Join(room, carol, chat.Block("Spambot")); err != nil {
		return err
	}
	tok, err := chat.Join(room, bell)
	if err != nil {
		return err
	}
	bell.Attach(tok)

	messages := [][2]string{
		{"Alice", "hello everyone"},
		{"Carol", "urgent update!"},
		{"Alice", "urgent meeting at 3PM"},
		{"Spambot", "this is spam bot msg"},
		{"Carol", "Bell"},
	}
	for _, m := range messages {
		if err := room.Send(m[0], m[1]); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.out, "-- Bob leaves --")
	sb.Cancel()
	if err := room.Send("Alice", "urgent: only Alice and Carol now"); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "-- room closed --")
	room.Close()
	if err := room.Send("Alice", "nobody should see this"); err != nil {
		return err
	}

	runtime.KeepAlive(alice)
	runtime.KeepAlive(bob)
	runtime.KeepAlive(carol)
	runtime.KeepAlive(bell)
	return nil
}

// runMarket publishes a short price series; repeated prices are not sent.
// Ticks are also routed to per-symbol broker topics.
func (a *App) runMarket(context.Context) error {
	feed := market.NewFeed(DemoMarket, channel.WithReporter(a.reporter))
	board := market.NewTicker("board", a.out)
	apple := market.NewTicker("apple", a.out)
	high := market.NewTicker("high", a.out)

	subs := []struct {
		ticker *market.Ticker
		opts   []channel.SubscribeOption[string, market.Tick]
	}{
		{ticker: board},
		{ticker: apple, opts: []channel.SubscribeOption[string, market.Tick]{channel.WithFilter(market.Symbol("AAPL"))}},
		{ticker: high, opts: []channel.SubscribeOption[string, market.Tick]{channel.WithFilter(market.Above(300))}},
	}
	for _, s := range subs {
		tok, err := channel.Subscribe(feed.Channel(), s.ticker, s.opts...)
		if err != nil {
			return err
		}
		defer tok.Close()
	}

	// Per-symbol topics log through the app logger only.
	topics := broker.New[string, market.Tick](channel.WithLogger(a.logger))
	router := market.NewRouter(DemoMarket, topics)
	msft := market.NewTicker("msft", a.out)
	rt, err := channel.Subscribe(feed.Channel(), router)
	if err != nil {
		return err
	}
	defer rt.Close()
	mt, err := channel.Subscribe(topics.Topic("MSFT"), msft)
	if err != nil {
		return err
	}
	defer mt.Close()

	ticks := []market.Tick{
		{Symbol: "AAPL", Price: 190.5},
		{Symbol: "MSFT", Price: 410.2},
		{Symbol: "AAPL", Price: 190.5},
		{Symbol: "AAPL", Price: 192.1},
	}
	for _, t := range ticks {
		published, err := feed.Publish(t.Symbol, t.Price)
		if err != nil {
			return err
		}
		if !published {
			fmt.Fprintf(a.out, "%s unchanged at %.2f, not published\n", t.Symbol, t.Price)
		}
	}

	runtime.KeepAlive(board)
	runtime.KeepAlive(apple)
	runtime.KeepAlive(high)
	runtime.KeepAlive(router)
	runtime.KeepAlive(msft)
	return nil
}

// runMonitor samples system usage, printing every sample and mirroring it
// into the metrics gauges.
func (a *App) runMonitor(ctx context.Context) error {
	m := monitor.New(DemoMonitor, a.config.Monitor, a.sampler, channel.WithReporter(a.reporter))
	alert := monitor.NewAlert("usage", a.out)

	sub, err := channel.Subscribe(m.Channel(), alert)
	if err != nil {
		return err
	}
	defer sub.Close()
	gauges, err := channel.Subscribe(m.Channel(), a.metric)
	if err != nil {
		return err
	}
	defer gauges.Close()

	if err := m.Run(ctx); err != nil {
		return err
	}
	runtime.KeepAlive(alert)
	return nil
}
